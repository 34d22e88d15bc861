// Package config turns loosely typed Dremio service records into validated
// connection descriptors.
//
// A record arrives as a map (from the host's persistence layer or from a
// services file), is decoded into Raw with weak typing, and is normalized
// into a Descriptor. Normalization never mutates its input.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// DriverName is the effective driver identifier. It is not user-overridable.
	DriverName = "dremio"

	// DefaultPort is the port assumed when a record carries none.
	DefaultPort = 443

	// DefaultDriverPath is the Arrow Flight SQL ODBC driver installation path
	// used when neither the record nor the environment provides one.
	DefaultDriverPath = "/opt/arrow-flight-sql-odbc-driver/lib64/libarrow-odbc.so.0.9.5.470"

	// DriverPathEnv names the environment variable consulted before DefaultDriverPath.
	DriverPathEnv = "DREMIO_ODBC_DRIVER_PATH"
)

// Option keys under the nested options area.
const (
	OptionToken    = "token"
	OptionHTTPPath = "http_path"
)

// Raw is a decoded but unvalidated service record.
// Field names follow the record's column names.
type Raw struct {
	Host       string            `mapstructure:"host"`
	Port       int               `mapstructure:"port"`
	HTTPPath   string            `mapstructure:"http_path"`
	Token      string            `mapstructure:"token"`
	UseODBC    *bool             `mapstructure:"use_odbc"`
	DriverPath string            `mapstructure:"driver_path"`
	Driver     string            `mapstructure:"driver"`
	Schema     string            `mapstructure:"schema"`
	Options    map[string]string `mapstructure:"options"`

	// Host bookkeeping, carried through untouched.
	ServiceID   int    `mapstructure:"service_id"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
}

// Descriptor is the canonical connection descriptor produced by Normalize.
//
// The auth token and HTTP path live only under Options; use Token and
// HTTPPath to read them.
type Descriptor struct {
	Driver     string
	Host       string
	Port       int
	UseODBC    bool
	DriverPath string
	Schema     string
	Options    map[string]string

	ServiceID   int
	Label       string
	Description string
}

// Token returns the auth token from the options area.
func (d *Descriptor) Token() string {
	return d.Options[OptionToken]
}

// HTTPPath returns the HTTP path from the options area.
func (d *Descriptor) HTTPPath() string {
	return d.Options[OptionHTTPPath]
}

// Decode converts a loosely typed record into Raw.
// Scalars are weakly typed the way the host casts its columns: port and
// service_id as integers, use_odbc as a boolean ("true", "1", 1 all work).
// Unknown keys are ignored.
func Decode(record map[string]any) (*Raw, error) {
	raw := &Raw{}
	if record == nil {
		return raw, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record decoder: %w", err)
	}
	if err := dec.Decode(record); err != nil {
		return nil, fmt.Errorf("failed to decode dremio service record: %w", err)
	}
	return raw, nil
}
