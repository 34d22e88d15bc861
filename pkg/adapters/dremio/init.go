// Package dremio provides the Dremio connection providers.
//
// This file registers the ODBC bridge (scheme "odbc") and the native
// Flight SQL provider (scheme "dremio") with the provider registry.
// Import this package with a blank identifier to register them:
//
//	import _ "github.com/leapstack-labs/dremio-connector/pkg/adapters/dremio"
package dremio

import (
	"log/slog"

	"github.com/leapstack-labs/dremio-connector/pkg/adapter"
	"github.com/leapstack-labs/dremio-connector/pkg/dsn"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/dremio-connector/pkg/dialects/dremio"
)

func init() {
	adapter.Register(dsn.SchemeODBC, func(logger *slog.Logger) adapter.Provider { return NewODBC(logger) })
	adapter.Register(dsn.SchemeNative, func(logger *slog.Logger) adapter.Provider { return NewNative(logger) })
}
