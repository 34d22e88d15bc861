package dremio

import (
	"context"
	"errors"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/core"
)

// asADBCError finds an ADBC error in err's chain. Drivers return both
// values and pointers.
func asADBCError(err error) (adbc.Error, bool) {
	var val adbc.Error
	if errors.As(err, &val) {
		return val, true
	}
	var ptr *adbc.Error
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return adbc.Error{}, false
}

// adbcCode prefers the server's vendor code over the ADBC status.
func adbcCode(e adbc.Error) int {
	if e.VendorCode != 0 {
		return int(e.VendorCode)
	}
	return int(e.Code)
}

// classify converts driver errors into structured error info.
func classify(err error) adapter.ErrorInfo {
	e, ok := asADBCError(err)
	if !ok {
		return adapter.DefaultClassify(err)
	}

	msg := e.Msg
	if msg == "" {
		msg = err.Error()
	}
	info := adapter.ErrorInfo{Code: adbcCode(e), Message: &msg}
	if e.SqlState[0] != 0 {
		info.SQLState = string(e.SqlState[:])
	}
	return info
}

// connectionError wraps a handshake failure with the provider's code.
func connectionError(err error) *core.ConnectionError {
	info := classify(err)
	return &core.ConnectionError{Code: info.Code, Message: *info.Message, Err: err}
}

// handle is a database/sql-backed handle whose handshake failures carry
// provider codes.
type handle struct {
	*adapter.SQLHandle
}

func (h handle) Ping(ctx context.Context) error {
	if err := h.SQLHandle.Ping(ctx); err != nil {
		return connectionError(err)
	}
	return nil
}
