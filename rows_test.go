package fqe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRows(n int) *Rows {
	result := &WireResult{
		Columns: []ColumnMeta{
			{Name: "id", WireType: "INTEGER"},
			{Name: "Name", WireType: "NULLABLE(VARCHAR)"},
		},
		RowCount: int64(n),
	}
	for i := 1; i <= n; i++ {
		result.Rows = append(result.Rows, []Value{
			{Kind: IntValue, Int: int64(i)},
			{Kind: TextValue, Text: fmt.Sprintf("row-%d", i)},
		})
	}
	return newRows(result)
}

func TestNextSaturates(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		rows := testRows(n)

		trues := 0
		for {
			ok, err := rows.Next()
			assert.Nil(t, err)
			if !ok {
				break
			}
			trues++
		}
		assert.Equal(t, n, trues)

		// Saturated: further calls keep returning false.
		ok, err := rows.Next()
		assert.Nil(t, err)
		assert.False(t, ok)
		assert.True(t, rows.IsAfterLast())
	}
}

func TestAbsolute(t *testing.T) {
	rows := testRows(5)

	tests := []struct {
		k        int
		onRow    bool
		position int
	}{
		{0, false, 0},
		{1, true, 1},
		{5, true, 5},
		{6, false, 0},
		{99, false, 0},
		{-1, true, 5},
		{-5, true, 1},
		{-6, false, 0},
		{-99, false, 0},
	}

	for _, test := range tests {
		ok, err := rows.Absolute(test.k)
		assert.Nil(t, err, test.k)
		assert.Equal(t, test.onRow, ok, test.k)
		assert.Equal(t, test.position, rows.Row(), test.k)
	}
}

func TestAbsoluteZeroAlwaysBeforeFirst(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		rows := testRows(n)
		ok, err := rows.Absolute(0)
		assert.Nil(t, err)
		assert.False(t, ok)
		assert.True(t, rows.IsBeforeFirst())
	}
}

func TestAbsoluteNegativeFromEnd(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		rows := testRows(n)
		ok, err := rows.Absolute(-1)
		assert.Nil(t, err)
		assert.True(t, ok)
		assert.Equal(t, n, rows.Row())
	}
}

func TestRelativeAndPrevious(t *testing.T) {
	rows := testRows(4)

	ok, err := rows.Relative(2)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, rows.Row())

	ok, err = rows.Relative(-1)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, rows.Row())

	ok, err = rows.Previous()
	assert.Nil(t, err)
	assert.False(t, ok)
	assert.True(t, rows.IsBeforeFirst())

	// Previous from after-last lands on the last row.
	assert.Nil(t, rows.AfterLast())
	ok, err = rows.Previous()
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, rows.Row())
}

func TestFirstLast(t *testing.T) {
	rows := testRows(3)

	ok, err := rows.Last()
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, rows.Row())

	ok, err = rows.First()
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, rows.Row())

	empty := testRows(0)
	ok, err = empty.First()
	assert.Nil(t, err)
	assert.False(t, ok)
	ok, err = empty.Last()
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestGettersRequireValidPosition(t *testing.T) {
	rows := testRows(2)

	_, err := rows.GetString(1)
	assert.Equal(t, ErrInvalidCursorPosition, err)

	assert.Nil(t, rows.AfterLast())
	_, err = rows.GetInt64(1)
	assert.Equal(t, ErrInvalidCursorPosition, err)

	ok, err := rows.First()
	assert.Nil(t, err)
	assert.True(t, ok)

	_, err = rows.GetString(0)
	assert.Equal(t, ErrInvalidColumnIndex, err)
	_, err = rows.GetString(3)
	assert.Equal(t, ErrInvalidColumnIndex, err)

	s, err := rows.GetString(2)
	assert.Nil(t, err)
	assert.Equal(t, "row-1", s)
}

func TestColumnLookupCaseInsensitive(t *testing.T) {
	rows := testRows(1)

	for _, name := range []string{"name", "NAME", "Name"} {
		i, err := rows.Column(name)
		assert.Nil(t, err, name)
		assert.Equal(t, 2, i, name)
	}

	_, err := rows.Column("missing")
	assert.Equal(t, ErrColumnNotFound, err)

	ok, err := rows.First()
	assert.Nil(t, err)
	assert.True(t, ok)

	s, err := rows.GetStringByName("NAME")
	assert.Nil(t, err)
	assert.Equal(t, "row-1", s)

	_, err = rows.GetInt64ByName("nope")
	assert.Equal(t, ErrColumnNotFound, err)
}

func TestWasNullTracking(t *testing.T) {
	result := &WireResult{
		Columns: []ColumnMeta{
			{Name: "n", WireType: "NULLABLE(INTEGER)"},
			{Name: "t", WireType: "INTEGER"},
		},
		Rows: [][]Value{
			{{Kind: NullValue}, {Kind: TextValue, Text: "abc"}},
		},
	}
	rows := newRows(result)

	ok, err := rows.Next()
	assert.Nil(t, err)
	assert.True(t, ok)

	// A genuine null: zero value, null flag set.
	i, err := rows.GetInt64(1)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), i)
	assert.True(t, rows.WasNull())

	// Unparsable non-null text: zero value, null flag clear.
	i, err = rows.GetInt64(2)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), i)
	assert.False(t, rows.WasNull())

	s, err := rows.GetString(1)
	assert.Nil(t, err)
	assert.Equal(t, "", s)
	assert.True(t, rows.WasNull())

	b, err := rows.GetBool(1)
	assert.Nil(t, err)
	assert.False(t, b)
	assert.True(t, rows.WasNull())

	f, err := rows.GetFloat64(1)
	assert.Nil(t, err)
	assert.Equal(t, float64(0), f)
	assert.True(t, rows.WasNull())

	tm, err := rows.GetTime(1)
	assert.Nil(t, err)
	assert.True(t, tm.IsZero())
	assert.True(t, rows.WasNull())
}

func TestClosedCursor(t *testing.T) {
	rows := testRows(2)
	assert.Nil(t, rows.Close())
	assert.Nil(t, rows.Close())

	_, err := rows.Next()
	assert.Equal(t, ErrRowsClosed, err)
	_, err = rows.Absolute(1)
	assert.Equal(t, ErrRowsClosed, err)
	_, err = rows.Previous()
	assert.Equal(t, ErrRowsClosed, err)
	_, err = rows.GetString(1)
	assert.Equal(t, ErrRowsClosed, err)
	_, err = rows.Column("id")
	assert.Equal(t, ErrRowsClosed, err)
	assert.Equal(t, ErrRowsClosed, rows.BeforeFirst())
	assert.Equal(t, ErrRowsClosed, rows.AfterLast())
}
