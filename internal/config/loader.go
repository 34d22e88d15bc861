package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FindConfigFile returns the services file to use: the explicit path, or
// dremio-services.yaml / dremio-services.yml in dir. Empty when none exists.
func FindConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultConfigFile, DefaultConfigFileAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads configuration from the services file, environment variables
// and flags. It returns the config and the services file used, if any.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load the services file
	cwd, _ := os.Getwd()
	used := FindConfigFile(cfgFile, cwd)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables: DREMIO_SERVICE -> service
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, "", err
	}

	for i := range cfg.Services {
		rec := &cfg.Services[i]
		rec.EnsureName()
		rec.Config = expandEnvVars(rec.Config)
	}
	return &cfg, used, nil
}

func (c *Config) validate() error {
	switch c.Output {
	case OutputTable, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q (expected %s or %s)", c.Output, OutputTable, OutputYAML)
	}

	seen := make(map[string]bool, len(c.Services))
	for _, rec := range c.Services {
		if rec.Name == "" {
			continue
		}
		if seen[rec.Name] {
			return fmt.Errorf("duplicate service name %q", rec.Name)
		}
		seen[rec.Name] = true
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars returns a copy of record with ${VAR} references in string
// values replaced by the variable's value. Unset variables are left as is.
func expandEnvVars(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for key, value := range record {
		switch v := value.(type) {
		case string:
			out[key] = expandString(v)
		case map[string]any:
			out[key] = expandEnvVars(v)
		default:
			out[key] = value
		}
	}
	return out
}

func expandString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
