package commands

import (
	"fmt"

	"github.com/leapstack-labs/dremio-connector/internal/config"
	"github.com/spf13/cobra"
)

type dsnReport struct {
	Service     string `yaml:"service"`
	Scheme      string `yaml:"scheme"`
	DSN         string `yaml:"dsn"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	UseODBC     bool   `yaml:"use_odbc"`
	DriverPath  string `yaml:"driver_path,omitempty"`
	Schema      string `yaml:"schema,omitempty"`
	CachePrefix string `yaml:"cache_prefix"`
}

// NewDSNCommand creates the dsn command.
func NewDSNCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dsn",
		Short: "Show the connection string for a service",
		Long: `Normalize a service record from the services file and print the
connection string it produces. Secrets are always redacted.`,
		Example: `  dremio-connector dsn --service warehouse
  dremio-connector dsn -s warehouse -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			d := svc.Descriptor()
			report := dsnReport{
				Service:     svc.Name(),
				Scheme:      string(svc.DSN().Scheme()),
				DSN:         svc.DSN().Redacted(),
				Host:        d.Host,
				Port:        d.Port,
				UseODBC:     d.UseODBC,
				Schema:      d.Schema,
				CachePrefix: svc.CachePrefix(),
			}
			if d.UseODBC {
				report.DriverPath = d.DriverPath
			}

			w := cmd.OutOrStdout()
			if config.FromContext(ctx).Output == config.OutputYAML {
				return renderYAML(w, report)
			}
			_, _ = fmt.Fprintln(w, report.DSN)
			return nil
		},
	}
}
