package datasource

import "fmt"

// Table is the generic result of one query: column names plus typed row
// values, in result order. It is the only shape the warehouse hands back;
// conversion into domain records happens in the mappers, never upstream.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not in result set", name)
}

// Value returns the cell at (row, named column), nil when the column is
// absent. Mappers treat an absent column like a null cell.
func (t *Table) Value(row int, name string) interface{} {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil
	}
	if row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][idx]
}
