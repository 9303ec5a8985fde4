// Package schema supplies the table/column catalog the sync engine
// resolves identifiers against. The Catalog is a read-only snapshot; the
// introspection helpers rebuild it from a live connection so the parser
// never works from a stale copy it cached itself.
package schema

// Catalog holds the known tables and their columns in declaration order.
type Catalog struct {
	Tables  []string            `json:"tables" yaml:"tables"`
	Columns map[string][]string `json:"columns" yaml:"columns"`
}

// HasTable reports whether name is a known table. Matching is
// case-sensitive, like every identifier comparison in the engine.
func (c *Catalog) HasTable(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.Columns[name]
	if ok {
		return true
	}
	for _, t := range c.Tables {
		if t == name {
			return true
		}
	}
	return false
}

// ColumnSet returns the membership set for a table's columns. A nil
// catalog or unknown table yields an empty set.
func (c *Catalog) ColumnSet(table string) map[string]struct{} {
	set := make(map[string]struct{})
	if c == nil {
		return set
	}
	for _, col := range c.Columns[table] {
		set[col] = struct{}{}
	}
	return set
}

// ColumnsFor returns a table's columns in declaration order.
func (c *Catalog) ColumnsFor(table string) []string {
	if c == nil {
		return nil
	}
	return c.Columns[table]
}
