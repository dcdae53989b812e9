package fqe

// DriverInfo is the static capability surface of the adapter. The remote
// engine's own capabilities are opaque; these flags describe what this
// client supports.
type DriverInfo struct {
	ProductName   string
	DriverName    string
	DriverVersion string

	SupportsTransactions     bool
	SupportsStoredProcedures bool
	SupportsBatchUpdates     bool
	SupportsScrollableRows   bool
	ReadOnly                 bool
}

const (
	productName   = "DuckDB Federated Query Engine"
	driverName    = "duckdb-fqe"
	driverVersion = "1.0.0"
)

// Info returns the adapter's static metadata.
func Info() DriverInfo {
	return DriverInfo{
		ProductName:            productName,
		DriverName:             driverName,
		DriverVersion:          driverVersion,
		SupportsScrollableRows: true,
	}
}
