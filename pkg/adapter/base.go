package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrorCoder is implemented by provider errors that carry a numeric code.
type ErrorCoder interface {
	ErrorCode() int
}

// ErrorCode extracts a provider code from err, or 0 when none is available.
func ErrorCode(err error) int {
	var coder ErrorCoder
	if errors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return 0
}

// DefaultClassify reports err with its message and any ErrorCoder code.
func DefaultClassify(err error) ErrorInfo {
	msg := err.Error()
	return ErrorInfo{Code: ErrorCode(err), Message: &msg}
}

// SQLHandle provides a Handle over a database/sql pool.
// Providers backed by a database/sql driver return one from Open.
type SQLHandle struct {
	DB     *sql.DB
	Logger *slog.Logger

	// Classify converts driver errors into ErrorInfo. Defaults to DefaultClassify.
	Classify func(err error) ErrorInfo
}

// NewSQLHandle wraps db. A nil logger uses a discard logger.
func NewSQLHandle(db *sql.DB, logger *slog.Logger, classify func(error) ErrorInfo) *SQLHandle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if classify == nil {
		classify = DefaultClassify
	}
	return &SQLHandle{DB: db, Logger: logger, Classify: classify}
}

func (h *SQLHandle) classify(err error) ErrorInfo {
	if h.Classify == nil {
		return DefaultClassify(err)
	}
	return h.Classify(err)
}

// Ping verifies the connection is usable.
func (h *SQLHandle) Ping(ctx context.Context) error {
	if h.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	return h.DB.PingContext(ctx)
}

// Close closes the database connection.
func (h *SQLHandle) Close() error {
	if h.DB != nil {
		if h.Logger != nil {
			h.Logger.Debug("closing database connection")
		}
		return h.DB.Close()
	}
	return nil
}

// Prepare prepares a statement on the pool.
func (h *SQLHandle) Prepare(ctx context.Context, query string) (Statement, error) {
	if h.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	stmt, err := h.DB.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqlStatement{stmt: stmt, classify: h.classify}, nil
}

// Query executes a SQL statement that returns rows and reads them fully.
func (h *SQLHandle) Query(ctx context.Context, query string, args ...any) ([]string, [][]any, error) {
	if h.DB == nil {
		return nil, nil, fmt.Errorf("database connection not established")
	}
	rows, err := h.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return columns, out, nil
}

type sqlStatement struct {
	stmt     *sql.Stmt
	classify func(error) ErrorInfo
	info     ErrorInfo
}

func (s *sqlStatement) Execute(ctx context.Context, args ...any) bool {
	if _, err := s.stmt.ExecContext(ctx, args...); err != nil {
		s.info = s.classify(err)
		return false
	}
	s.info = ErrorInfo{}
	return true
}

func (s *sqlStatement) ErrorInfo() ErrorInfo {
	return s.info
}

func (s *sqlStatement) Close() error {
	return s.stmt.Close()
}
