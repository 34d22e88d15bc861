package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/dremio-connector/pkg/core"
	"github.com/leapstack-labs/dremio-connector/pkg/dialect"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"
)

// Provisioner turns DSNs into dialect-bound connections.
type Provisioner struct {
	Dialect *dialect.Dialect
	Logger  *slog.Logger

	// Schema is the configured default schema; it is normalized with the
	// dialect's schema case. Empty falls back to the dialect's DefaultSchema.
	Schema string

	// Resolve picks the provider for a DSN. Defaults to the scheme registry.
	Resolve func(d dsn.DSN, logger *slog.Logger) (Provider, error)
}

// NewProvisioner creates a Provisioner for d.
// If logger is nil, a discard logger is used.
func NewProvisioner(d *dialect.Dialect, schema string, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provisioner{
		Dialect: d,
		Logger:  logger,
		Schema:  schema,
		Resolve: NewProvider,
	}
}

// Connect obtains a handle for d and wraps it in a Connection.
// Provider failures are returned as *core.ConnectionError; no handle
// outlives a failed Connect.
func (p *Provisioner) Connect(ctx context.Context, d dsn.DSN, creds Credentials) (*Connection, error) {
	if p.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resolve := p.Resolve
	if resolve == nil {
		resolve = NewProvider
	}

	logger.Debug("connecting to dremio", slog.Any("dsn", d), slog.String("scheme", string(d.Scheme())))

	provider, err := resolve(d, logger)
	if err != nil {
		return nil, p.connectionError(logger, err)
	}

	handle, err := provider.Open(ctx, d, creds)
	if err != nil {
		return nil, p.connectionError(logger, err)
	}

	if err := handle.Ping(ctx); err != nil {
		_ = handle.Close()
		return nil, p.connectionError(logger, err)
	}

	logger.Debug("connected to dremio", slog.String("scheme", string(d.Scheme())))

	name := p.Schema
	if name == "" {
		name = p.Dialect.DefaultSchema
	}
	schema := p.Dialect.NormalizeSchema(name)
	return &Connection{
		handle:        handle,
		dialect:       p.Dialect,
		logger:        logger,
		defaultSchema: schema,
		currentSchema: schema,
	}, nil
}

func (p *Provisioner) connectionError(logger *slog.Logger, err error) error {
	var connErr *core.ConnectionError
	if !errors.As(err, &connErr) {
		connErr = &core.ConnectionError{Code: ErrorCode(err), Message: err.Error(), Err: err}
	}
	logger.Error("failed to connect to dremio",
		slog.Int("code", connErr.Code),
		slog.String("error", dsn.Redact(connErr.Message)))
	return connErr
}

// ErrConnectionClosed is returned by operations on a closed Connection.
var ErrConnectionClosed = errors.New("connection is closed")

// ErrSchemaRejected is wrapped by the *core.StatementError returned when the
// server rejects a schema switch without an error message.
var ErrSchemaRejected = errors.New("schema switch rejected")

// Connection is a live, dialect-bound connection. It is not safe for
// concurrent use.
type Connection struct {
	handle  Handle
	dialect *dialect.Dialect
	logger  *slog.Logger

	defaultSchema string
	currentSchema string
	modified      bool
}

// Dialect returns the dialect bound to the connection.
func (c *Connection) Dialect() *dialect.Dialect {
	return c.dialect
}

// DefaultSchema returns the configured schema in canonical case.
func (c *Connection) DefaultSchema() string {
	return c.defaultSchema
}

// CurrentSchema returns the schema most recently switched to.
func (c *Connection) CurrentSchema() string {
	return c.currentSchema
}

// SetCurrentSchema switches the server's current schema and records it.
// The recorded schema changes only when the server accepts the switch.
func (c *Connection) SetCurrentSchema(ctx context.Context, name string) error {
	stmt, err := c.dialect.Grammar().SetSchema(name)
	if err != nil {
		return err
	}

	ok, err := c.run(ctx, stmt)
	if err != nil {
		return err
	}
	if !ok {
		return &core.StatementError{
			Message: fmt.Sprintf("schema switch to %q was rejected", name),
			Err:     ErrSchemaRejected,
		}
	}

	c.currentSchema = c.dialect.NormalizeSchema(name)
	c.logger.Debug("switched schema", slog.String("schema", c.currentSchema))
	return nil
}

// ResetCurrentSchema switches back to the default schema. With no default
// schema configured, only the recorded schema is cleared.
func (c *Connection) ResetCurrentSchema(ctx context.Context) error {
	if c.defaultSchema == "" {
		c.currentSchema = ""
		return nil
	}
	return c.SetCurrentSchema(ctx, c.defaultSchema)
}

// Execute prepares, binds and executes statement.
//
// A failure whose error info carries a message is returned as
// *core.StatementError. A failure without a message is reported as
// (false, nil). Success marks the connection as modified.
func (c *Connection) Execute(ctx context.Context, statement string, params ...any) (bool, error) {
	ok, err := c.run(ctx, statement, params...)
	if err != nil || !ok {
		return ok, err
	}
	c.modified = true
	return true, nil
}

func (c *Connection) run(ctx context.Context, statement string, params ...any) (bool, error) {
	if c.handle == nil {
		return false, ErrConnectionClosed
	}
	stmt, err := c.handle.Prepare(ctx, statement)
	if err != nil {
		info := DefaultClassify(err)
		return false, &core.StatementError{Code: info.Code, Message: *info.Message}
	}
	defer func() { _ = stmt.Close() }()

	if stmt.Execute(ctx, params...) {
		return true, nil
	}

	info := stmt.ErrorInfo()
	if info.Message != nil {
		return false, &core.StatementError{Code: info.Code, Message: *info.Message}
	}
	return false, nil
}

// Select runs a read-only query and returns rows processed by the dialect.
func (c *Connection) Select(ctx context.Context, query string, params ...any) ([]core.Row, error) {
	if c.handle == nil {
		return nil, ErrConnectionClosed
	}
	columns, raw, err := c.handle.Query(ctx, query, params...)
	if err != nil {
		info := DefaultClassify(err)
		return nil, &core.StatementError{Code: info.Code, Message: *info.Message}
	}

	processor := c.dialect.Processor()
	rows := make([]core.Row, 0, len(raw))
	for _, values := range raw {
		rows = append(rows, processor.ProcessRow(columns, values))
	}
	return rows, nil
}

// Modified reports whether a statement has succeeded since the last reset.
func (c *Connection) Modified() bool {
	return c.modified
}

// ResetModified clears the modified flag.
func (c *Connection) ResetModified() {
	c.modified = false
}

// Introspector returns a catalog introspector running on this connection.
func (c *Connection) Introspector() *dialect.Introspector {
	return dialect.NewIntrospector(c.dialect, c)
}

// Close releases the underlying handle.
func (c *Connection) Close() error {
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}
