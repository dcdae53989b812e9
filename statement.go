package fqe

import (
	"fmt"
	"strings"
	"time"
)

// queryKeywords are the leading keywords that mark text as query-shaped.
var queryKeywords = []string{"SELECT", "SHOW", "DESCRIBE", "EXPLAIN"}

// isQueryShaped classifies SQL text by its leading keyword.
func isQueryShaped(sql string) bool {
	trimmed := strings.TrimSpace(sql)
	for _, kw := range queryKeywords {
		if len(trimmed) < len(kw) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(kw)], kw) {
			continue
		}
		// The keyword must end the token: "SELECTED" is not a query.
		if len(trimmed) == len(kw) || !isIdentChar(trimmed[len(kw)]) {
			return true
		}
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// Stmt executes SQL text over one connection. A statement is not safe for
// concurrent use.
type Stmt struct {
	conn        *Conn
	rows        *Rows
	updateCount int64
	closed      bool
}

// ExecuteQuery runs query-shaped SQL and returns a scrollable cursor.
func (s *Stmt) ExecuteQuery(sql string) (*Rows, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}

	result, err := s.conn.client.RunQuery(sql)
	if err != nil {
		return nil, err
	}

	rows := newRows(result)
	s.rows = rows
	s.updateCount = -1
	return rows, nil
}

// ExecuteUpdate runs update-shaped SQL. The wire protocol carries no
// affected-row count, so a successful update always reports zero.
func (s *Stmt) ExecuteUpdate(sql string) (int64, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}

	count, err := s.conn.client.RunExec(sql)
	if err != nil {
		return 0, err
	}

	s.rows = nil
	s.updateCount = count
	return count, nil
}

// Execute classifies the text and routes it: true means a result set is
// available via ResultSet, false means an update ran and UpdateCount holds
// its (always zero) count.
func (s *Stmt) Execute(sql string) (bool, error) {
	if err := s.usable(); err != nil {
		return false, err
	}

	if isQueryShaped(sql) {
		_, err := s.ExecuteQuery(sql)
		return err == nil, err
	}

	_, err := s.ExecuteUpdate(sql)
	return false, err
}

// ResultSet returns the cursor produced by the last Execute or
// ExecuteQuery, or nil.
func (s *Stmt) ResultSet() *Rows {
	return s.rows
}

// UpdateCount returns the last update count, or -1 when the last execution
// produced a result set.
func (s *Stmt) UpdateCount() int64 {
	return s.updateCount
}

// Close releases the statement and its current cursor. Idempotent.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
	return nil
}

func (s *Stmt) usable() error {
	if s.closed {
		return ErrStatementClosed
	}
	return s.conn.usable()
}

// PreparedStmt is a statement plus a pure text-transformation stage:
// ordinal parameters are serialized into the SQL before dispatch. The
// substitution is textual; quote doubling on text literals is the only
// escaping performed.
type PreparedStmt struct {
	Stmt
	sql    string
	params map[int]param
}

type param struct {
	null  bool
	value string
}

func (p *PreparedStmt) bind(index int, pm param) error {
	if err := p.usable(); err != nil {
		return err
	}
	if index < 1 || index > countPlaceholders(p.sql) {
		return fmt.Errorf("%w: %d", ErrParameterIndex, index)
	}
	p.params[index] = pm
	return nil
}

func (p *PreparedStmt) BindNull(index int) error {
	return p.bind(index, param{null: true})
}

func (p *PreparedStmt) BindString(index int, v string) error {
	return p.bind(index, param{value: quoteText(v)})
}

func (p *PreparedStmt) BindInt64(index int, v int64) error {
	return p.bind(index, param{value: fmt.Sprintf("%d", v)})
}

func (p *PreparedStmt) BindFloat64(index int, v float64) error {
	return p.bind(index, param{value: fmt.Sprintf("%g", v)})
}

func (p *PreparedStmt) BindBool(index int, v bool) error {
	return p.bind(index, param{value: fmt.Sprintf("%t", v)})
}

func (p *PreparedStmt) BindTime(index int, v time.Time) error {
	return p.bind(index, param{value: "'" + v.Format("2006-01-02 15:04:05") + "'"})
}

// ClearBindings drops all bound parameters.
func (p *PreparedStmt) ClearBindings() {
	p.params = map[int]param{}
}

// quoteText single-quotes a text literal, doubling embedded quotes.
func quoteText(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// placeholderOffsets scans the SQL for ? placeholders, skipping any inside
// single- or double-quoted runs. Quotes escape by doubling.
func placeholderOffsets(sql string) []int {
	var offsets []int
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' || c == '"' {
			delimiter := c
			for i++; i < len(sql); i++ {
				if sql[i] != delimiter {
					continue
				}
				if i+1 < len(sql) && sql[i+1] == delimiter {
					i++
					continue
				}
				break
			}
			continue
		}
		if c == '?' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func countPlaceholders(sql string) int {
	return len(placeholderOffsets(sql))
}

// buildFinalSQL renders the statement text with every placeholder replaced
// by its serialized literal, left to right.
func (p *PreparedStmt) buildFinalSQL() (string, error) {
	offsets := placeholderOffsets(p.sql)
	for i := 1; i <= len(offsets); i++ {
		if _, ok := p.params[i]; !ok {
			return "", fmt.Errorf("%w: parameter %d", ErrUnboundParameter, i)
		}
	}

	// Replace back to front so earlier offsets stay valid.
	sql := p.sql
	for i := len(offsets) - 1; i >= 0; i-- {
		pm := p.params[i+1]
		literal := pm.value
		if pm.null {
			literal = "NULL"
		}
		sql = sql[:offsets[i]] + literal + sql[offsets[i]+1:]
	}

	return sql, nil
}

// ExecuteQuery runs the prepared text with its parameters substituted.
func (p *PreparedStmt) ExecuteQuery() (*Rows, error) {
	sql, err := p.buildFinalSQL()
	if err != nil {
		return nil, err
	}
	return p.Stmt.ExecuteQuery(sql)
}

// ExecuteUpdate runs the prepared text as an update.
func (p *PreparedStmt) ExecuteUpdate() (int64, error) {
	sql, err := p.buildFinalSQL()
	if err != nil {
		return 0, err
	}
	return p.Stmt.ExecuteUpdate(sql)
}

// Execute classifies and runs the prepared text.
func (p *PreparedStmt) Execute() (bool, error) {
	sql, err := p.buildFinalSQL()
	if err != nil {
		return false, err
	}
	return p.Stmt.Execute(sql)
}
