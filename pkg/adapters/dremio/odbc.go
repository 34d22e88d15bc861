package dremio

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

// DefaultODBCDriverName is the database/sql driver name under which the
// host binary registers its ODBC driver manager binding.
const DefaultODBCDriverName = "odbc"

// ODBCProvider opens connections through an ODBC driver manager registered
// with database/sql. The connector ships no ODBC binding of its own.
type ODBCProvider struct {
	Logger *slog.Logger

	// DriverName is the database/sql driver to open. Defaults to "odbc".
	DriverName string
}

// NewODBC creates an ODBC provider.
// If logger is nil, a discard logger is used.
func NewODBC(logger *slog.Logger) *ODBCProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ODBCProvider{Logger: logger, DriverName: DefaultODBCDriverName}
}

// Open implements adapter.Provider.
func (p *ODBCProvider) Open(_ context.Context, d dsn.DSN, creds adapter.Credentials) (adapter.Handle, error) {
	info, err := dsn.Parse(d)
	if err != nil {
		return nil, err
	}
	if info.Scheme != dsn.SchemeODBC {
		return nil, fmt.Errorf("odbc provider cannot open %q DSNs", info.Scheme)
	}

	connStr := ODBCConnString(info, creds)
	p.Logger.Debug("opening odbc connection",
		slog.String("driver", p.DriverName),
		slog.String("connection", dsn.Redact(connStr)))

	db, err := sql.Open(p.DriverName, connStr)
	if err != nil {
		return nil, &core.ConnectionError{
			Message: fmt.Sprintf("%v (is the %q database/sql driver registered?)", err, p.DriverName),
			Err:     err,
		}
	}
	return handle{adapter.NewSQLHandle(db, p.Logger, classify)}, nil
}

// ODBCConnString renders the driver-manager connection string for info:
// the DSN pairs without the scheme prefix, in DSN order. Non-empty
// credentials replace the UID and PWD pairs.
func ODBCConnString(info *dsn.Info, creds adapter.Credentials) string {
	pairs := make([]string, 0, len(info.Keys))
	for _, key := range info.Keys {
		value := info.Get(key)
		switch strings.ToLower(key) {
		case "uid":
			if creds.Username != "" {
				value = creds.Username
			}
		case "pwd":
			if creds.Password != "" {
				value = creds.Password
			}
		}
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ";")
}
