package fqe

import (
	"strings"
	"time"
)

// Rows is a scrollable cursor over one materialized query result. The
// position ranges over [0, N+1]: 0 is before the first row, 1..N are valid
// rows, N+1 is after the last. A Rows instance is not safe for concurrent
// use; its data is a full in-memory snapshot and stays readable after the
// connection that produced it closes.
type Rows struct {
	result   *WireResult
	position int
	lastNull bool
	closed   bool
}

func newRows(result *WireResult) *Rows {
	return &Rows{result: result}
}

// Columns returns the column names in result order.
func (r *Rows) Columns() []string {
	names := make([]string, len(r.result.Columns))
	for i, c := range r.result.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnTypes returns the column metadata in result order.
func (r *Rows) ColumnTypes() []ColumnMeta {
	types := make([]ColumnMeta, len(r.result.Columns))
	copy(types, r.result.Columns)
	return types
}

// Column resolves a column label to its 1-based index. Matching is
// case-insensitive; the first match wins.
func (r *Rows) Column(name string) (int, error) {
	if r.closed {
		return 0, ErrRowsClosed
	}

	for i, c := range r.result.Columns {
		if strings.EqualFold(c.Name, name) {
			return i + 1, nil
		}
	}

	return 0, ErrColumnNotFound
}

// RowCount is the number of decoded rows. This, not the server's advisory
// count, bounds iteration.
func (r *Rows) RowCount() int {
	return len(r.result.Rows)
}

// AdvisoryRowCount is the row count the server claimed, which may disagree
// with RowCount.
func (r *Rows) AdvisoryRowCount() int64 {
	return r.result.RowCount
}

// Stats returns the server-reported execution statistics.
func (r *Rows) Stats() ExecStats {
	return r.result.Stats
}

// Next advances the cursor one row, returning true while a valid row is
// reached. Once past the last row it saturates: further calls keep
// returning false.
func (r *Rows) Next() (bool, error) {
	if r.closed {
		return false, ErrRowsClosed
	}

	n := len(r.result.Rows)
	if r.position < n {
		r.position++
		return true, nil
	}

	r.position = n + 1
	return false, nil
}

// Previous moves the cursor one row back.
func (r *Rows) Previous() (bool, error) {
	if r.closed {
		return false, ErrRowsClosed
	}

	if r.position > 1 {
		r.position--
		return r.onRow(), nil
	}

	r.position = 0
	return false, nil
}

// Absolute positions the cursor. Zero lands before the first row; positive
// k clamps at after-last; negative k counts 1-based from the last row and
// clamps at before-first. Returns true iff the cursor lands on a valid row.
func (r *Rows) Absolute(k int) (bool, error) {
	if r.closed {
		return false, ErrRowsClosed
	}

	n := len(r.result.Rows)
	switch {
	case k == 0:
		r.position = 0
	case k > 0:
		r.position = k
		if r.position > n+1 {
			r.position = n + 1
		}
	default:
		r.position = n + k + 1
		if r.position < 0 {
			r.position = 0
		}
	}

	return r.onRow(), nil
}

// Relative moves the cursor k rows from its current position.
func (r *Rows) Relative(k int) (bool, error) {
	if r.closed {
		return false, ErrRowsClosed
	}
	return r.Absolute(r.position + k)
}

// First positions the cursor on the first row.
func (r *Rows) First() (bool, error) {
	return r.Absolute(1)
}

// Last positions the cursor on the last row.
func (r *Rows) Last() (bool, error) {
	return r.Absolute(-1)
}

// BeforeFirst rewinds the cursor to its initial state.
func (r *Rows) BeforeFirst() error {
	if r.closed {
		return ErrRowsClosed
	}
	r.position = 0
	return nil
}

// AfterLast moves the cursor past the last row.
func (r *Rows) AfterLast() error {
	if r.closed {
		return ErrRowsClosed
	}
	r.position = len(r.result.Rows) + 1
	return nil
}

// Row returns the 1-based position, or 0 when not on a valid row.
func (r *Rows) Row() int {
	if r.onRow() {
		return r.position
	}
	return 0
}

func (r *Rows) IsBeforeFirst() bool {
	return !r.closed && r.position == 0
}

func (r *Rows) IsAfterLast() bool {
	return !r.closed && r.position == len(r.result.Rows)+1
}

func (r *Rows) onRow() bool {
	return r.position >= 1 && r.position <= len(r.result.Rows)
}

// cell fetches the raw value at the given 1-based column of the current row.
func (r *Rows) cell(column int) (Value, error) {
	if r.closed {
		return Value{}, ErrRowsClosed
	}
	if !r.onRow() {
		return Value{}, ErrInvalidCursorPosition
	}
	if column < 1 || column > len(r.result.Columns) {
		return Value{}, ErrInvalidColumnIndex
	}

	return r.result.Rows[r.position-1][column-1], nil
}

// WasNull reports whether the most recently read cell was a genuine null.
// A failed numeric parse on non-null text does not count.
func (r *Rows) WasNull() bool {
	return r.lastNull
}

func (r *Rows) GetString(column int) (string, error) {
	v, err := r.cell(column)
	if err != nil {
		return "", err
	}
	s, null := v.asString()
	r.lastNull = null
	return s, nil
}

func (r *Rows) GetInt64(column int) (int64, error) {
	v, err := r.cell(column)
	if err != nil {
		return 0, err
	}
	i, null := v.asInt64()
	r.lastNull = null
	return i, nil
}

func (r *Rows) GetInt(column int) (int, error) {
	i, err := r.GetInt64(column)
	return int(i), err
}

func (r *Rows) GetFloat64(column int) (float64, error) {
	v, err := r.cell(column)
	if err != nil {
		return 0, err
	}
	f, null := v.asFloat64()
	r.lastNull = null
	return f, nil
}

func (r *Rows) GetBool(column int) (bool, error) {
	v, err := r.cell(column)
	if err != nil {
		return false, err
	}
	b, null := v.asBool()
	r.lastNull = null
	return b, nil
}

func (r *Rows) GetTime(column int) (time.Time, error) {
	v, err := r.cell(column)
	if err != nil {
		return time.Time{}, err
	}
	t, null := v.asTime()
	r.lastNull = null
	return t, nil
}

// GetValue returns the raw decoded cell without coercion.
func (r *Rows) GetValue(column int) (Value, error) {
	v, err := r.cell(column)
	if err != nil {
		return Value{}, err
	}
	r.lastNull = v.IsNull()
	return v, nil
}

func (r *Rows) GetStringByName(name string) (string, error) {
	i, err := r.Column(name)
	if err != nil {
		return "", err
	}
	return r.GetString(i)
}

func (r *Rows) GetInt64ByName(name string) (int64, error) {
	i, err := r.Column(name)
	if err != nil {
		return 0, err
	}
	return r.GetInt64(i)
}

func (r *Rows) GetFloat64ByName(name string) (float64, error) {
	i, err := r.Column(name)
	if err != nil {
		return 0, err
	}
	return r.GetFloat64(i)
}

func (r *Rows) GetBoolByName(name string) (bool, error) {
	i, err := r.Column(name)
	if err != nil {
		return false, err
	}
	return r.GetBool(i)
}

func (r *Rows) GetTimeByName(name string) (time.Time, error) {
	i, err := r.Column(name)
	if err != nil {
		return time.Time{}, err
	}
	return r.GetTime(i)
}

// Close marks the cursor unusable. Idempotent.
func (r *Rows) Close() error {
	r.closed = true
	return nil
}
