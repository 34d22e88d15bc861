package dremio

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-adbc/go/adbc/driver/flightsql"
	"github.com/apache/arrow-adbc/go/adbc/sqldriver"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/config"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

// FlightSQLDriverName is the database/sql driver registered for native
// connections. It wraps the ADBC Flight SQL driver.
const FlightSQLDriverName = "dremio-flightsql"

var registerFlightSQL = sync.OnceFunc(func() {
	sql.Register(FlightSQLDriverName, sqldriver.Driver{
		Driver: flightsql.NewDriver(memory.DefaultAllocator),
	})
})

// NativeProvider opens native connections over Arrow Flight SQL.
type NativeProvider struct {
	Logger *slog.Logger

	// DriverName is the database/sql driver to open. Defaults to
	// FlightSQLDriverName, which is registered on first use.
	DriverName string
}

// NewNative creates a native provider.
// If logger is nil, a discard logger is used.
func NewNative(logger *slog.Logger) *NativeProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NativeProvider{Logger: logger, DriverName: FlightSQLDriverName}
}

// Open implements adapter.Provider.
func (p *NativeProvider) Open(_ context.Context, d dsn.DSN, creds adapter.Credentials) (adapter.Handle, error) {
	info, err := dsn.Parse(d)
	if err != nil {
		return nil, err
	}
	if info.Scheme != dsn.SchemeNative {
		return nil, fmt.Errorf("native provider cannot open %q DSNs", info.Scheme)
	}

	connStr, err := FlightSQLConnString(info, creds)
	if err != nil {
		return nil, err
	}

	if p.DriverName == FlightSQLDriverName {
		registerFlightSQL()
	}

	p.Logger.Debug("opening flight sql connection",
		slog.String("connection", dsn.Redact(connStr)),
		slog.String("http_path", info.Get("http_path")))

	db, err := sql.Open(p.DriverName, connStr)
	if err != nil {
		return nil, connectionError(err)
	}
	return handle{adapter.NewSQLHandle(db, p.Logger, classify)}, nil
}

// FlightSQLConnString renders the ADBC connection string for a native DSN.
// A DSN without a port uses the default port; ssl=0 selects plaintext gRPC.
// A non-empty password replaces the DSN's token.
func FlightSQLConnString(info *dsn.Info, creds adapter.Credentials) (string, error) {
	host, port, err := info.HostPort()
	if err != nil {
		return "", err
	}
	if port == 0 {
		port = config.DefaultPort
	}

	scheme := "grpc+tls"
	if info.Get("ssl") == "0" {
		scheme = "grpc+tcp"
	}

	token := info.Get("token")
	if creds.Password != "" {
		token = creds.Password
	}

	uri := scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
	return adbc.OptionKeyURI + "=" + uri + ";" +
		flightsql.OptionAuthorizationHeader + "=Bearer " + token, nil
}
