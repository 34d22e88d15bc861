// Package dsn builds and parses Dremio connection strings.
//
// Two grammars exist and are selected by the descriptor's UseODBC flag:
//
//	odbc:Driver=<path>;Host=<host>;HTTPPath=<path>;UID=token;PWD=<token>;Port=443;SSL=1;ThriftTransport=2;AuthMech=3
//	dremio:host=<host>[:<port>];http_path=<path>;token=<token>;thrift_transport=2;ssl=1;auth_mech=3
//
// The native port segment is written only for a port other than 0 and the
// default 443; an explicit 443 renders the same as no port. Field order and
// key names are part of the contract with the drivers and must not change. DSNs carry the auth token in cleartext; log them only
// through Redacted or the slog.LogValuer implementation.
package dsn

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/dremio-connector/pkg/config"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// DSN is a connection string in one of the two grammars.
type DSN string

// Scheme identifies the grammar (and provider) of a DSN.
type Scheme string

const (
	// SchemeODBC selects the ODBC bridge.
	SchemeODBC Scheme = "odbc"
	// SchemeNative selects the native wire driver.
	SchemeNative Scheme = "dremio"
)

// Scheme returns the DSN's scheme prefix, or "" when it has none.
func (d DSN) Scheme() Scheme {
	scheme, _, ok := strings.Cut(string(d), ":")
	if !ok {
		return ""
	}
	return Scheme(strings.ToLower(scheme))
}

// Redacted returns the DSN with secret values masked.
func (d DSN) Redacted() string {
	return Redact(string(d))
}

// LogValue implements slog.LogValuer so a DSN never reaches a log in cleartext.
func (d DSN) LogValue() slog.Value {
	return slog.StringValue(d.Redacted())
}

// Constants groups the literal connection parameters embedded in every DSN.
type Constants struct {
	// DriverPath is used when an ODBC descriptor carries no driver path.
	DriverPath string
	// ODBCPort is the port always written to ODBC DSNs.
	ODBCPort int
	// DefaultPort is the native port that is left out of native DSNs.
	DefaultPort int
	// UID is the literal user name for token authentication.
	UID string
	// SSL enables TLS (1) or disables it (0).
	SSL int
	// ThriftTransport selects the HTTP thrift transport.
	ThriftTransport int
	// AuthMech selects token authentication.
	AuthMech int
}

// DefaultConstants are the parameters the Dremio ODBC driver and the native
// driver expect.
var DefaultConstants = Constants{
	DriverPath:      config.DefaultDriverPath,
	ODBCPort:        443,
	DefaultPort:     config.DefaultPort,
	UID:             "token",
	SSL:             1,
	ThriftTransport: 2,
	AuthMech:        3,
}

// Builder renders descriptors into DSNs.
type Builder struct {
	Constants Constants
}

// NewBuilder creates a Builder using DefaultConstants.
func NewBuilder() *Builder {
	return &Builder{Constants: DefaultConstants}
}

// Build renders d with DefaultConstants.
func Build(d *config.Descriptor) (DSN, error) {
	return NewBuilder().Build(d)
}

// Build renders d into a DSN. The output depends only on d and the
// builder's constants.
func (b *Builder) Build(d *config.Descriptor) (DSN, error) {
	if d == nil {
		return "", core.NewMissingFieldError("host")
	}

	// Re-checked here because descriptors can be constructed without Normalize.
	switch {
	case d.Host == "":
		return "", core.NewMissingFieldError("host")
	case d.HTTPPath() == "":
		return "", core.NewMissingFieldError("http_path")
	case d.Token() == "":
		return "", core.NewMissingFieldError("token")
	}
	for _, f := range [][2]string{
		{"host", d.Host},
		{"http_path", d.HTTPPath()},
		{"token", d.Token()},
		{"driver_path", d.DriverPath},
	} {
		if strings.ContainsAny(f[1], ";\r\n") {
			return "", &core.ConfigurationError{Field: f[0], Reason: "must not contain ';' or line breaks"}
		}
	}

	if d.UseODBC {
		return b.buildODBC(d), nil
	}
	return b.buildNative(d), nil
}

func (b *Builder) buildODBC(d *config.Descriptor) DSN {
	driverPath := d.DriverPath
	if driverPath == "" {
		driverPath = b.Constants.DriverPath
	}

	var sb strings.Builder
	sb.WriteString(string(SchemeODBC))
	sb.WriteString(":")
	writePairs(&sb, [][2]string{
		{"Driver", driverPath},
		{"Host", d.Host},
		{"HTTPPath", d.HTTPPath()},
		{"UID", b.Constants.UID},
		{"PWD", d.Token()},
		{"Port", strconv.Itoa(b.Constants.ODBCPort)},
		{"SSL", strconv.Itoa(b.Constants.SSL)},
		{"ThriftTransport", strconv.Itoa(b.Constants.ThriftTransport)},
		{"AuthMech", strconv.Itoa(b.Constants.AuthMech)},
	})
	return DSN(sb.String())
}

func (b *Builder) buildNative(d *config.Descriptor) DSN {
	host := d.Host
	if d.Port != 0 && d.Port != b.Constants.DefaultPort {
		host += ":" + strconv.Itoa(d.Port)
	}

	var sb strings.Builder
	sb.WriteString(string(SchemeNative))
	sb.WriteString(":")
	writePairs(&sb, [][2]string{
		{"host", host},
		{"http_path", d.HTTPPath()},
		{"token", d.Token()},
		{"thrift_transport", strconv.Itoa(b.Constants.ThriftTransport)},
		{"ssl", strconv.Itoa(b.Constants.SSL)},
		{"auth_mech", strconv.Itoa(b.Constants.AuthMech)},
	})
	return DSN(sb.String())
}

func writePairs(sb *strings.Builder, pairs [][2]string) {
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(p[0])
		sb.WriteString("=")
		sb.WriteString(p[1])
	}
}
