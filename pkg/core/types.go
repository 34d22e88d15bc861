package core

// Row is one generic result record: column names in server order and the
// matching values. Positional access is preserved because some metadata
// statements (SHOW TABLES) are consumed by column position.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// At returns the value at position i, or nil when the row is shorter.
func (r Row) At(i int) any {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// TableDescriptor describes one table discovered by catalog introspection.
type TableDescriptor struct {
	// SchemaName is the schema the listing was scoped to (may be empty).
	SchemaName string
	// ResourceName is the unquoted table name as returned by the server.
	ResourceName string
	// Name is the display name; the lookup key is its lowercase form.
	Name string
	// InternalName is the human-readable qualified name (schema.resource).
	InternalName string
	// QuotedName is the fully quoted qualified name ("schema"."resource").
	QuotedName string
}
