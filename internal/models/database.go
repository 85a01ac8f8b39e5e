package models

// DatabaseTable is the flattened form of a database: its schema reduced to
// column names and every queried row reduced to plain cell strings, ready
// for table rendering.
type DatabaseTable struct {
	ID      string
	Title   string
	Columns []string
	Rows    [][]string

	// Truncated is set when the row query stopped at MaxRows.
	Truncated bool
	MaxRows   int
}
