package fqe

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsQueryShaped(t *testing.T) {
	tests := []struct {
		sql   string
		query bool
	}{
		{"SELECT 1", true},
		{"  select * from t", true},
		{"SHOW DATABASES", true},
		{"show tables", true},
		{"DESCRIBE t", true},
		{"explain select 1", true},
		{"EXPLAIN", true},
		{"CREATE TABLE t (id INTEGER)", false},
		{"INSERT INTO t VALUES (1)", false},
		{"ATTACH 'x.db' AS x", false},
		{"", false},
		// Keyword must end the token.
		{"SELECTED something", false},
		{"SHOWDOWN", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.query, isQueryShaped(test.sql), test.sql)
	}
}

func TestPlaceholderOffsets(t *testing.T) {
	tests := []struct {
		sql   string
		count int
	}{
		{"SELECT 1", 0},
		{"SELECT ? FROM t WHERE a = ?", 2},
		// Placeholders inside quoted literals are not placeholders.
		{"SELECT '?' FROM t WHERE a = ?", 1},
		{"SELECT \"?col\" FROM t", 0},
		{"SELECT 'it''s ?' FROM t WHERE a = ?", 1},
		{"SELECT '???'", 0},
	}

	for _, test := range tests {
		assert.Equal(t, test.count, countPlaceholders(test.sql), test.sql)
	}
}

func preparedForTest(sql string) *PreparedStmt {
	return &PreparedStmt{
		Stmt:   Stmt{conn: &Conn{}, updateCount: -1},
		sql:    sql,
		params: map[int]param{},
	}
}

func TestBuildFinalSQL(t *testing.T) {
	p := preparedForTest("SELECT * FROM t WHERE name = ? AND age > ? AND active = ? AND deleted_at IS ?")

	assert.Nil(t, p.BindString(1, "alice"))
	assert.Nil(t, p.BindInt64(2, 30))
	assert.Nil(t, p.BindBool(3, true))
	assert.Nil(t, p.BindNull(4))

	sql, err := p.buildFinalSQL()
	assert.Nil(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE name = 'alice' AND age > 30 AND active = true AND deleted_at IS NULL", sql)
}

func TestBuildFinalSQLQuoteDoubling(t *testing.T) {
	p := preparedForTest("SELECT * FROM t WHERE name = ?")
	original := "it's a 'quoted' value"
	assert.Nil(t, p.BindString(1, original))

	sql, err := p.buildFinalSQL()
	assert.Nil(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE name = 'it''s a ''quoted'' value'", sql)

	// Round trip: re-parsing the literal reconstructs the original text.
	literal := strings.TrimPrefix(sql, "SELECT * FROM t WHERE name = ")
	inner := strings.TrimSuffix(strings.TrimPrefix(literal, "'"), "'")
	assert.Equal(t, original, strings.ReplaceAll(inner, "''", "'"))
}

func TestBuildFinalSQLSkipsQuotedPlaceholders(t *testing.T) {
	p := preparedForTest("SELECT '?' AS q FROM t WHERE a = ?")
	assert.Nil(t, p.BindInt64(1, 7))

	sql, err := p.buildFinalSQL()
	assert.Nil(t, err)
	assert.Equal(t, "SELECT '?' AS q FROM t WHERE a = 7", sql)
}

func TestBindTimeSerialization(t *testing.T) {
	p := preparedForTest("SELECT * FROM t WHERE created = ?")
	assert.Nil(t, p.BindTime(1, time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)))

	sql, err := p.buildFinalSQL()
	assert.Nil(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE created = '2024-06-01 12:30:45'", sql)
}

func TestBindFloatSerialization(t *testing.T) {
	p := preparedForTest("SELECT ?")
	assert.Nil(t, p.BindFloat64(1, 2.5))

	sql, err := p.buildFinalSQL()
	assert.Nil(t, err)
	assert.Equal(t, "SELECT 2.5", sql)
}

func TestUnboundParameter(t *testing.T) {
	p := preparedForTest("SELECT * FROM t WHERE a = ? AND b = ?")
	assert.Nil(t, p.BindInt64(1, 1))

	_, err := p.buildFinalSQL()
	assert.ErrorIs(t, err, ErrUnboundParameter)
}

func TestBindIndexOutOfRange(t *testing.T) {
	p := preparedForTest("SELECT * FROM t WHERE a = ?")

	assert.ErrorIs(t, p.BindInt64(0, 1), ErrParameterIndex)
	assert.ErrorIs(t, p.BindInt64(2, 1), ErrParameterIndex)
	assert.Nil(t, p.BindInt64(1, 1))
}

func TestClearBindings(t *testing.T) {
	p := preparedForTest("SELECT ?")
	assert.Nil(t, p.BindString(1, "x"))
	p.ClearBindings()

	_, err := p.buildFinalSQL()
	assert.ErrorIs(t, err, ErrUnboundParameter)
}

func TestClosedStatement(t *testing.T) {
	s := &Stmt{conn: &Conn{}, updateCount: -1}
	assert.Nil(t, s.Close())
	assert.Nil(t, s.Close())

	_, err := s.ExecuteQuery("SELECT 1")
	assert.Equal(t, ErrStatementClosed, err)
	_, err = s.ExecuteUpdate("CREATE TABLE t (id INTEGER)")
	assert.Equal(t, ErrStatementClosed, err)
	_, err = s.Execute("SELECT 1")
	assert.Equal(t, ErrStatementClosed, err)
}
