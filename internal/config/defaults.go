package config

// Default configuration values.
const (
	DefaultConfigFile    = "dremio-services.yaml"
	DefaultConfigFileAlt = "dremio-services.yml"
	DefaultOutput        = OutputTable

	// EnvPrefix is stripped from environment variables mapped onto config keys.
	EnvPrefix = "DREMIO_"
)

// Output formats.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

func defaults() map[string]any {
	return map[string]any{
		"service": "",
		"verbose": false,
		"output":  DefaultOutput,
	}
}
