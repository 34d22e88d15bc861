package dialect

import "github.com/leapstack-labs/dremio-connector/pkg/core"

// Processor turns raw driver values into the generic row shape.
type Processor interface {
	ProcessRow(columns []string, values []any) core.Row
}

// DefaultProcessor converts []byte values to strings and keeps everything
// else as returned by the driver.
type DefaultProcessor struct{}

// ProcessRow implements Processor.
func (DefaultProcessor) ProcessRow(columns []string, values []any) core.Row {
	out := make([]any, len(values))
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			out[i] = string(b)
			continue
		}
		out[i] = v
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return core.Row{Columns: cols, Values: out}
}
