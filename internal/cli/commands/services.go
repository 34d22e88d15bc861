package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dremio-connector/internal/config"
	"github.com/leapstack-labs/dremio-connector/pkg/service"
	"github.com/spf13/cobra"
)

type servicesReport struct {
	Types      []typeEntry    `yaml:"types"`
	Resources  []string       `yaml:"resources"`
	Configured []serviceEntry `yaml:"configured"`
}

type typeEntry struct {
	Name         string `yaml:"name"`
	Label        string `yaml:"label"`
	Group        string `yaml:"group"`
	Subscription string `yaml:"subscription_required"`
	Description  string `yaml:"description"`
}

type serviceEntry struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
}

// NewServicesCommand creates the services command.
func NewServicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List service types and configured services",
		Long: `List the registered service types, the resources every dremio service
exposes, and the services defined in the services file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newRegistry()
			if err != nil {
				return err
			}
			cfg := config.FromContext(cmd.Context())

			var report servicesReport
			for _, t := range r.ServiceTypes() {
				report.Types = append(report.Types, typeEntry{
					Name:         t.Name,
					Label:        t.Label,
					Group:        t.Group,
					Subscription: t.SubscriptionRequired,
					Description:  t.Description,
				})
			}
			for _, h := range service.ResourceHandlers() {
				report.Resources = append(report.Resources, h.Name)
			}
			for _, rec := range cfg.Services {
				report.Configured = append(report.Configured, serviceEntry{ID: rec.ID, Name: rec.Name, Label: rec.Label})
			}

			w := cmd.OutOrStdout()
			if cfg.Output == config.OutputYAML {
				return renderYAML(w, report)
			}

			types := make([][]any, len(report.Types))
			for i, t := range report.Types {
				types[i] = []any{t.Name, t.Label, t.Group, t.Subscription}
			}
			renderTable(w, []string{"Type", "Label", "Group", "Subscription"}, types)
			_, _ = fmt.Fprintf(w, "Resources: %s\n\n", strings.Join(report.Resources, ", "))

			configured := make([][]any, len(report.Configured))
			for i, s := range report.Configured {
				configured[i] = []any{s.ID, s.Name, s.Label}
			}
			renderTable(w, []string{"ID", "Service", "Label"}, configured)
			return nil
		},
	}
}
