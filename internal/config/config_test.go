package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/dremio-connector/pkg/service"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servicesYAML = `
output: yaml
services:
  - id: 1
    name: warehouse
    label: Warehouse
    config:
      host: dremio.example.com
      http_path: /v1
      token: ${DREMIO_TEST_TOKEN}
      use_odbc: false
      port: 32010
  - id: 2
    config:
      host: lake.example.com
      http_path: /v2
      options:
        token: nested
`

func writeServices(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("service", "", "")
	fs.Bool("verbose", false, "")
	fs.String("output", DefaultOutput, "")
	return fs
}

func TestLoad_File(t *testing.T) {
	t.Setenv("DREMIO_TEST_TOKEN", "from-env")
	path := writeServices(t, servicesYAML)

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, OutputYAML, cfg.Output)
	require.Len(t, cfg.Services, 2)

	wh := cfg.Services[0]
	assert.Equal(t, 1, wh.ID)
	assert.Equal(t, "warehouse", wh.Name)
	assert.Equal(t, "from-env", wh.Config["token"], "${VAR} references are expanded")

	assert.Equal(t, "dremio-2", cfg.Services[1].Name, "unnamed services get the fallback name")
	opts, ok := cfg.Services[1].Config["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "nested", opts["token"])
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Services)
}

func TestLoad_DiscoversFileInWorkingDir(t *testing.T) {
	path := writeServices(t, servicesYAML)
	t.Chdir(filepath.Dir(path))

	_, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFile, filepath.Base(used))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeServices(t, servicesYAML)

	t.Setenv("DREMIO_SERVICE", "warehouse")
	t.Setenv("DREMIO_OUTPUT", "table")

	cfg, _, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", cfg.Service)
	assert.Equal(t, OutputTable, cfg.Output, "env overrides file")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--service", "dremio-2", "--verbose"}))

	cfg, _, err = Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "dremio-2", cfg.Service, "flags override env")
	assert.True(t, cfg.Verbose)
	assert.Equal(t, OutputTable, cfg.Output, "unset flags do not override")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid output",
			content: "output: json\n",
			wantErr: "invalid output format",
		},
		{
			name:    "duplicate names",
			content: "services:\n  - name: a\n  - name: a\n",
			wantErr: "duplicate service name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeServices(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Find(t *testing.T) {
	two := &Config{Services: []service.Record{{Name: "a"}, {Name: "b"}}}
	one := &Config{Services: []service.Record{{Name: "only"}}}

	rec, err := two.Find("b")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Name)

	rec, err = one.Find("")
	require.NoError(t, err)
	assert.Equal(t, "only", rec.Name)

	_, err = two.Find("")
	assert.ErrorContains(t, err, "--service")

	_, err = two.Find("c")
	assert.ErrorContains(t, err, `service "c" not found`)

	_, err = (&Config{}).Find("")
	assert.ErrorContains(t, err, "no services configured")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DREMIO_TEST_HOST", "h.example.com")

	in := map[string]any{
		"host":    "${DREMIO_TEST_HOST}",
		"token":   "${DREMIO_TEST_UNSET}",
		"port":    443,
		"options": map[string]any{"http_path": "/${DREMIO_TEST_HOST}"},
	}
	out := expandEnvVars(in)

	assert.Equal(t, "h.example.com", out["host"])
	assert.Equal(t, "${DREMIO_TEST_UNSET}", out["token"])
	assert.Equal(t, 443, out["port"])
	assert.Equal(t, map[string]any{"http_path": "/h.example.com"}, out["options"])
	assert.Equal(t, "${DREMIO_TEST_HOST}", in["host"], "input is not modified")
}
