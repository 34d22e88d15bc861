package commands

import (
	"fmt"

	"github.com/leapstack-labs/dremio-connector/internal/config"
	pkgconfig "github.com/leapstack-labs/dremio-connector/pkg/config"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the service configuration fields",
		Long:  `Print the fields a dremio service record accepts, with labels, types and defaults.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := pkgconfig.ConfigSchema()

			w := cmd.OutOrStdout()
			if config.FromContext(cmd.Context()).Output == config.OutputYAML {
				return renderYAML(w, fields)
			}

			rows := make([][]any, len(fields))
			for i, f := range fields {
				def := ""
				if f.Default != nil {
					def = fmt.Sprint(f.Default)
				}
				rows[i] = []any{f.Name, f.Label, f.Type, f.Required, def}
			}
			renderTable(w, []string{"Field", "Label", "Type", "Required", "Default"}, rows)
			return nil
		},
	}
}
