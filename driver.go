package fqe

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
	"time"
)

// Driver adapts the client to database/sql. Registration is an explicit
// call the hosting application makes during its own startup, not an import
// side effect.
type Driver struct{}

var _ driver.Driver = &Driver{}

var registerOnce sync.Once

// Register makes the driver available to database/sql under the name
// "fqe". Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		sql.Register("fqe", &Driver{})
	})
}

func (d *Driver) Open(dsn string) (driver.Conn, error) {
	conn, err := Connect(dsn, nil)
	if err != nil {
		return nil, err
	}
	return &driverConn{conn: conn}, nil
}

type driverConn struct {
	conn *Conn
}

var (
	_ driver.Conn    = &driverConn{}
	_ driver.Queryer = &driverConn{}
	_ driver.Execer  = &driverConn{}
)

func (dc *driverConn) Prepare(query string) (driver.Stmt, error) {
	prepared, err := dc.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &driverStmt{prepared: prepared, numInput: countPlaceholders(query)}, nil
}

func (dc *driverConn) Begin() (driver.Tx, error) {
	return nil, ErrUnsupported
}

func (dc *driverConn) Close() error {
	return dc.conn.Close()
}

func (dc *driverConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	if len(args) > 0 {
		// Route parameterized queries through Prepare.
		return nil, driver.ErrSkip
	}

	stmt, err := dc.conn.CreateStatement()
	if err != nil {
		return nil, err
	}

	rows, err := stmt.ExecuteQuery(query)
	// Detach the cursor so closing the throwaway statement does not close it.
	stmt.rows = nil
	stmt.Close()
	if err != nil {
		return nil, err
	}
	return &driverRows{rows: rows}, nil
}

func (dc *driverConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, driver.ErrSkip
	}

	stmt, err := dc.conn.CreateStatement()
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	count, err := stmt.ExecuteUpdate(query)
	if err != nil {
		return nil, err
	}
	return driverResult{rowsAffected: count}, nil
}

type driverStmt struct {
	prepared *PreparedStmt
	numInput int
}

var _ driver.Stmt = &driverStmt{}

func (ds *driverStmt) Close() error {
	return ds.prepared.Close()
}

func (ds *driverStmt) NumInput() int {
	return ds.numInput
}

func (ds *driverStmt) bindAll(args []driver.Value) error {
	ds.prepared.ClearBindings()
	for i, arg := range args {
		index := i + 1
		var err error
		switch v := arg.(type) {
		case nil:
			err = ds.prepared.BindNull(index)
		case bool:
			err = ds.prepared.BindBool(index, v)
		case int64:
			err = ds.prepared.BindInt64(index, v)
		case float64:
			err = ds.prepared.BindFloat64(index, v)
		case string:
			err = ds.prepared.BindString(index, v)
		case []byte:
			err = ds.prepared.BindString(index, string(v))
		case time.Time:
			err = ds.prepared.BindTime(index, v)
		default:
			err = ErrUnsupported
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ds *driverStmt) Query(args []driver.Value) (driver.Rows, error) {
	if err := ds.bindAll(args); err != nil {
		return nil, err
	}
	rows, err := ds.prepared.ExecuteQuery()
	if err != nil {
		return nil, err
	}
	return &driverRows{rows: rows}, nil
}

func (ds *driverStmt) Exec(args []driver.Value) (driver.Result, error) {
	if err := ds.bindAll(args); err != nil {
		return nil, err
	}
	count, err := ds.prepared.ExecuteUpdate()
	if err != nil {
		return nil, err
	}
	return driverResult{rowsAffected: count}, nil
}

type driverRows struct {
	rows *Rows
}

var (
	_ driver.Rows                           = &driverRows{}
	_ driver.RowsColumnTypeDatabaseTypeName = &driverRows{}
	_ driver.RowsColumnTypeNullable         = &driverRows{}
)

func (dr *driverRows) Columns() []string {
	return dr.rows.Columns()
}

func (dr *driverRows) ColumnTypeDatabaseTypeName(index int) string {
	types := dr.rows.ColumnTypes()
	if index < 0 || index >= len(types) {
		return ""
	}
	return types[index].BaseType()
}

func (dr *driverRows) ColumnTypeNullable(index int) (nullable, ok bool) {
	types := dr.rows.ColumnTypes()
	if index < 0 || index >= len(types) {
		return false, false
	}
	return types[index].Nullable(), true
}

func (dr *driverRows) Next(dest []driver.Value) error {
	ok, err := dr.rows.Next()
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	for i := range dest {
		v, err := dr.rows.GetValue(i + 1)
		if err != nil {
			return err
		}
		switch v.Kind {
		case NullValue:
			dest[i] = nil
		case BoolValue:
			dest[i] = v.Bool
		case IntValue:
			dest[i] = v.Int
		case FloatValue:
			dest[i] = v.Float
		default:
			dest[i] = v.Text
		}
	}

	return nil
}

func (dr *driverRows) Close() error {
	return dr.rows.Close()
}

type driverResult struct {
	rowsAffected int64
}

func (r driverResult) LastInsertId() (int64, error) {
	return 0, ErrUnsupported
}

func (r driverResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
