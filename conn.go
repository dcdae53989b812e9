package fqe

import (
	"fmt"
	"strings"
	"time"
)

// Conn is one open connection to the federated query engine. It owns one
// transport client; statements created from it share that transport.
// Separate Conn instances are fully independent.
type Conn struct {
	descriptor *Descriptor
	client     *httpClient

	closed     bool
	autoCommit bool
	readOnly   bool
	catalog    string
}

// Connect parses the descriptor string, applies the overrides onto its
// options, probes the server and returns an open connection. A failed probe
// fails the whole attempt; Connect never returns a half-open connection.
func Connect(dsn string, overrides map[string]string) (*Conn, error) {
	d, err := ParseDescriptor(dsn)
	if err != nil {
		return nil, err
	}

	for key, value := range overrides {
		d.setOption(key, value)
	}

	client := newHTTPClient(d)
	if err := client.Probe(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s", ErrConnectFailed, err)
	}

	return &Conn{
		descriptor: d,
		client:     client,
		autoCommit: true,
	}, nil
}

// Descriptor returns the parsed descriptor the connection was opened with.
func (c *Conn) Descriptor() *Descriptor {
	return c.descriptor
}

// CreateStatement returns a new statement bound to this connection.
func (c *Conn) CreateStatement() (*Stmt, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	return &Stmt{conn: c, updateCount: -1}, nil
}

// Prepare returns a prepared statement for SQL text with ? placeholders.
func (c *Conn) Prepare(sql string) (*PreparedStmt, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	return &PreparedStmt{
		Stmt:   Stmt{conn: c, updateCount: -1},
		sql:    sql,
		params: map[int]param{},
	}, nil
}

// Ping probes the server over the existing transport.
func (c *Conn) Ping() error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.client.Probe()
}

// WaitForReady polls the server until it answers the probe or maxWait
// elapses.
func (c *Conn) WaitForReady(maxWait time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	for {
		if c.Ping() == nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Second)
	}
}

// Close releases the transport. Idempotent. Cursors already materialized
// stay readable; new executions fail.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.client.Close()
	return nil
}

func (c *Conn) usable() error {
	if c.closed {
		return ErrConnClosed
	}
	return nil
}

// Session flags are tracked locally; the stateless protocol gives them no
// remote effect.

func (c *Conn) SetAutoCommit(v bool) error {
	if err := c.usable(); err != nil {
		return err
	}
	c.autoCommit = v
	return nil
}

func (c *Conn) AutoCommit() bool {
	return c.autoCommit
}

func (c *Conn) SetReadOnly(v bool) error {
	if err := c.usable(); err != nil {
		return err
	}
	c.readOnly = v
	return nil
}

func (c *Conn) ReadOnly() bool {
	return c.readOnly
}

func (c *Conn) SetCatalog(name string) error {
	if err := c.usable(); err != nil {
		return err
	}
	c.catalog = name
	return nil
}

func (c *Conn) Catalog() string {
	return c.catalog
}

// Commit is bookkeeping only; every statement is effectively auto-committed
// by the remote engine.
func (c *Conn) Commit() error {
	return c.usable()
}

// Rollback is bookkeeping only; there is nothing to roll back.
func (c *Conn) Rollback() error {
	return c.usable()
}

func (c *Conn) query(sql string) (*Rows, error) {
	stmt, err := c.CreateStatement()
	if err != nil {
		return nil, err
	}

	rows, err := stmt.ExecuteQuery(sql)
	// Detach the cursor so closing the throwaway statement does not close it.
	stmt.rows = nil
	stmt.Close()
	return rows, err
}

// Databases lists the databases attached to the engine.
func (c *Conn) Databases() ([]string, error) {
	return c.firstColumn("SHOW DATABASES")
}

// Tables lists tables, optionally scoped to one attached database. With no
// database it queries the engine's federated table registry.
func (c *Conn) Tables(database string) ([]string, error) {
	if database == "" {
		return c.firstColumn("SELECT * FROM federated_tables")
	}
	return c.firstColumn("SHOW TABLES FROM " + database)
}

// DescribeTable returns the schema of a table as reported by the engine.
func (c *Conn) DescribeTable(name string) (*Rows, error) {
	return c.query("DESCRIBE " + name)
}

// CountRows counts the rows of a table. Missing or malformed counts read
// as zero.
func (c *Conn) CountRows(table string) (int64, error) {
	rows, err := c.query(fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if ok, err := rows.Next(); err != nil || !ok {
		return 0, err
	}
	return rows.GetInt64(1)
}

// ServerVersion asks the engine for its version string.
func (c *Conn) ServerVersion() (string, error) {
	rows, err := c.query("SELECT version()")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if ok, err := rows.Next(); err != nil || !ok {
		return "", err
	}
	return rows.GetString(1)
}

func (c *Conn) firstColumn(sql string) ([]string, error) {
	rows, err := c.query(sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for {
		ok, err := rows.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		v, err := rows.GetString(1)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

// JoinQuery assembles a cross-source join over attached tables.
type JoinQuery struct {
	Tables         []string
	JoinConditions []string
	SelectColumns  []string
	Where          []string
	Limit          int
}

// SQL renders the join query. The first table anchors the FROM clause; each
// further table consumes one join condition.
func (q JoinQuery) SQL() (string, error) {
	if len(q.Tables) == 0 {
		return "", fmt.Errorf("join query needs at least one table")
	}

	selectClause := "*"
	if len(q.SelectColumns) > 0 {
		selectClause = strings.Join(q.SelectColumns, ", ")
	}

	fromClause := q.Tables[0]
	for i, table := range q.Tables[1:] {
		if i >= len(q.JoinConditions) {
			break
		}
		fromClause += fmt.Sprintf(" JOIN %s ON %s", table, q.JoinConditions[i])
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", selectClause, fromClause)
	if len(q.Where) > 0 {
		sql += " WHERE " + strings.Join(q.Where, " AND ")
	}
	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return sql, nil
}

// RunJoin executes a federated join and returns its cursor.
func (c *Conn) RunJoin(q JoinQuery) (*Rows, error) {
	sql, err := q.SQL()
	if err != nil {
		return nil, err
	}
	return c.query(sql)
}
