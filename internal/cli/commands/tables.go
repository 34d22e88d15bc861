package commands

import (
	"sort"

	"github.com/leapstack-labs/dremio-connector/internal/config"
	"github.com/spf13/cobra"
)

type tableEntry struct {
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	InternalName string `yaml:"internal_name"`
	QuotedName   string `yaml:"quoted_name"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables of a service",
		Long: `Connect to the selected service and list its tables with SHOW TABLES.
Without --schema the server's current schema is listed.`,
		Example: `  dremio-connector tables -s warehouse
  dremio-connector tables -s warehouse --schema analytics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			tables, err := svc.ListTables(ctx, schema)
			if err != nil {
				return err
			}

			entries := make([]tableEntry, 0, len(tables))
			for key, t := range tables {
				entries = append(entries, tableEntry{
					Key:          key,
					Name:         t.Name,
					InternalName: t.InternalName,
					QuotedName:   t.QuotedName,
				})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

			w := cmd.OutOrStdout()
			if config.FromContext(ctx).Output == config.OutputYAML {
				return renderYAML(w, entries)
			}

			rows := make([][]any, len(entries))
			for i, e := range entries {
				rows[i] = []any{e.Name, e.InternalName, e.QuotedName}
			}
			renderTable(w, []string{"Name", "Internal Name", "Quoted Name"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "Schema to list (default: current schema)")
	return cmd
}
