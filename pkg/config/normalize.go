package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// Normalizer converts Raw records into Descriptors.
// The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	// LookupEnv resolves environment variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// DefaultDriverPath is the last-resort ODBC driver path.
	DefaultDriverPath string

	validate *validator.Validate
}

// NewNormalizer creates a Normalizer reading the process environment.
func NewNormalizer() *Normalizer {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("dsnsafe", dsnSafe); err != nil {
		panic(err)
	}
	return &Normalizer{
		LookupEnv:         os.LookupEnv,
		DefaultDriverPath: DefaultDriverPath,
		validate:          v,
	}
}

var defaultNormalizer = NewNormalizer()

// dsnUnsafe are the characters that would split a connection string pair.
const dsnUnsafe = ";\r\n"

func dsnSafe(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), dsnUnsafe)
}

// Normalize validates raw with the process environment and the documented
// default driver path.
func Normalize(raw *Raw) (*Descriptor, error) {
	return defaultNormalizer.Normalize(raw)
}

// requirements is the view checked by the validator. Field order is the
// order in which missing fields are reported.
type requirements struct {
	Token      string `mapstructure:"token" validate:"required,dsnsafe"`
	Host       string `mapstructure:"host" validate:"required,dsnsafe"`
	HTTPPath   string `mapstructure:"http_path" validate:"required,dsnsafe"`
	DriverPath string `mapstructure:"driver_path" validate:"required_if=UseODBC true,dsnsafe"`
	UseODBC    bool   `mapstructure:"use_odbc"`
	Port       int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// Normalize resolves defaults, trims the host, token and HTTP path, relocates
// the token and HTTP path under the options area and validates the result.
// raw is not modified.
func (n *Normalizer) Normalize(raw *Raw) (*Descriptor, error) {
	if raw == nil {
		raw = &Raw{}
	}

	useODBC := true
	if raw.UseODBC != nil {
		useODBC = *raw.UseODBC
	}

	port := raw.Port
	if port == 0 {
		port = DefaultPort
	}

	d := &Descriptor{
		Driver:      DriverName,
		Host:        strings.TrimSpace(raw.Host),
		Port:        port,
		UseODBC:     useODBC,
		DriverPath:  n.resolveDriverPath(raw.DriverPath),
		Schema:      raw.Schema,
		Options:     MergeOptions(trimCredentials(raw.Options), strings.TrimSpace(raw.Token), strings.TrimSpace(raw.HTTPPath)),
		ServiceID:   raw.ServiceID,
		Label:       raw.Label,
		Description: raw.Description,
	}

	if err := n.check(d); err != nil {
		return nil, err
	}
	return d, nil
}

// resolveDriverPath picks the explicit value, then the environment, then the default.
func (n *Normalizer) resolveDriverPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if n.LookupEnv != nil {
		if v, ok := n.LookupEnv(DriverPathEnv); ok && v != "" {
			return v
		}
	}
	return n.DefaultDriverPath
}

func (n *Normalizer) check(d *Descriptor) error {
	req := requirements{
		Token:      d.Token(),
		Host:       d.Host,
		HTTPPath:   d.HTTPPath(),
		DriverPath: d.DriverPath,
		UseODBC:    d.UseODBC,
		Port:       d.Port,
	}

	err := n.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate dremio configuration: %w", err)
	}

	first := fieldErrs[0]
	switch first.Tag() {
	case "required", "required_if":
		return core.NewMissingFieldError(first.Field())
	case "dsnsafe":
		return &core.ConfigurationError{
			Field:  first.Field(),
			Reason: "must not contain ';' or line breaks",
		}
	default:
		return &core.ConfigurationError{
			Field:  first.Field(),
			Reason: fmt.Sprintf("must be between 1 and 65535, got %v", first.Value()),
		}
	}
}

// trimCredentials copies opts with the token and HTTP path trimmed.
func trimCredentials(opts map[string]string) map[string]string {
	out := maps.Clone(opts)
	for _, key := range []string{OptionToken, OptionHTTPPath} {
		if v, ok := out[key]; ok {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}

// MergeOptions returns a copy of opts with the top-level token and HTTP path
// relocated under their option keys. A value already present under opts is
// never overwritten, and empty top-level values are ignored. The input map is
// not modified.
//
// Applying MergeOptions to its own output with empty top-level values returns
// an equal map.
func MergeOptions(opts map[string]string, token, httpPath string) map[string]string {
	merged := make(map[string]string, len(opts)+2)
	maps.Copy(merged, opts)

	relocate := func(key, value string) {
		if value == "" {
			return
		}
		if existing, ok := merged[key]; ok && existing != "" {
			return
		}
		merged[key] = value
	}
	relocate(OptionToken, token)
	relocate(OptionHTTPPath, httpPath)

	return merged
}
