package dremio

import (
	"github.com/leapstack-labs/dremio-connector/pkg/dialect"
)

func init() {
	dialect.Register(Dremio)
}

// Dremio is the Dremio dialect.
// Schema names are uppercased in SET SCHEMA statements.
var Dremio = dialect.New(Config).
	SchemaCase(dialect.NormUppercase).
	Build()
