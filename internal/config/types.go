// Package config loads operator configuration for the dremio-connector CLI.
//
// Configuration is layered with koanf: built-in defaults, then a services
// file, then DREMIO_* environment variables, then explicitly set flags.
// The services file lists the service records the CLI can act on.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dremio-connector/pkg/service"
)

// Config holds the CLI configuration.
type Config struct {
	// Service selects a record from Services by name.
	Service string `koanf:"service"`
	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"` // table, yaml

	Services []service.Record `koanf:"services"`
}

// Names returns the service names in file order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Services))
	for i, rec := range c.Services {
		names[i] = rec.Name
	}
	return names
}

// Find returns the named service record. With an empty name, a file holding
// exactly one service selects it.
func (c *Config) Find(name string) (*service.Record, error) {
	if name == "" {
		switch len(c.Services) {
		case 0:
			return nil, fmt.Errorf("no services configured\nHint: add a services list to %s", DefaultConfigFile)
		case 1:
			return &c.Services[0], nil
		default:
			return nil, fmt.Errorf("multiple services configured, select one with --service: %s", strings.Join(c.Names(), ", "))
		}
	}

	for i := range c.Services {
		if c.Services[i].Name == name {
			return &c.Services[i], nil
		}
	}
	return nil, fmt.Errorf("service %q not found\nAvailable services: %v", name, c.Names())
}
