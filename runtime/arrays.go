package runtime

import (
	"fmt"
	"strings"
)

// Arrays is the side table backing ARRAY values. An ARRAY Value only
// carries a handle (an index into tables); the elements live here, so
// assigning an ARRAY value copies the reference rather than the contents.
type Arrays struct {
	tables [][]Value
}

// New allocates an array of size elements, each initially NULL, and returns
// a Value referencing it.
func (a *Arrays) New(size int64) (Value, error) {
	if size < 0 {
		return Value{}, fmt.Errorf("array size must be non-negative, got %d", size)
	}
	table := make([]Value, size)
	for i := range table {
		table[i] = NullValue()
	}
	a.tables = append(a.tables, table)
	return ArrayValue(int64(len(a.tables) - 1)), nil
}

// Get reads element index of the array referenced by v.
func (a *Arrays) Get(v Value, index int64) (Value, error) {
	table, err := a.table(v)
	if err != nil {
		return Value{}, err
	}
	if index < 0 || int(index) >= len(table) {
		return Value{}, fmt.Errorf("array index %d out of bounds (length %d)", index, len(table))
	}
	return table[index], nil
}

// Set writes value into element index of the array referenced by v.
func (a *Arrays) Set(v Value, index int64, value Value) error {
	table, err := a.table(v)
	if err != nil {
		return err
	}
	if index < 0 || int(index) >= len(table) {
		return fmt.Errorf("array index %d out of bounds (length %d)", index, len(table))
	}
	table[index] = value
	return nil
}

// Format renders v the way PRINT writes it, expanding an ARRAY value into
// its element list (e.g. "[1, 2, 3]") using this table; any other tag
// renders via Value.String.
func (a *Arrays) Format(v Value) string {
	if v.Tag != ARRAY {
		return v.String()
	}
	table, err := a.table(v)
	if err != nil {
		return v.String()
	}
	elems := make([]string, len(table))
	for i, e := range table {
		elems[i] = a.Format(e)
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (a *Arrays) table(v Value) ([]Value, error) {
	if v.Tag != ARRAY {
		return nil, fmt.Errorf("expected an ARRAY value, got %s", v.Tag)
	}
	if v.Int < 0 || int(v.Int) >= len(a.tables) {
		return nil, fmt.Errorf("invalid array handle %d", v.Int)
	}
	return a.tables[v.Int], nil
}
