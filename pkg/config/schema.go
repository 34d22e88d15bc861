package config

// Field describes one administrator-facing configuration field.
type Field struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required,omitempty"`
	Default     any    `yaml:"default,omitempty"`
}

// ConfigSchema returns the field schema shown to administrators when they
// create or edit a Dremio service, in display order.
func ConfigSchema() []Field {
	return []Field{
		{Name: "label", Label: "Simple label", Type: "text", Description: "This is just a simple label"},
		{Name: "description", Label: "Description", Type: "text", Description: "This is just a description"},
		{Name: "host", Label: "Dremio Host", Type: "text", Required: true, Description: "Your Dremio Host URL"},
		{Name: "port", Label: "Port", Type: "integer", Default: DefaultPort, Description: "The port number for the Dremio connection"},
		{Name: "http_path", Label: "HTTP Path", Type: "text", Required: true, Description: "The HTTP path for your Dremio cluster"},
		{Name: "token", Label: "Access Token", Type: "password", Required: true, Description: "Your Dremio access token"},
		{Name: "use_odbc", Label: "Use ODBC", Type: "boolean", Default: true, Description: "Whether to use ODBC for the connection"},
		{Name: "driver_path", Label: "ODBC Driver Path", Type: "text", Required: true, Default: DefaultDriverPath, Description: "The path to the Dremio ODBC driver"},
	}
}
