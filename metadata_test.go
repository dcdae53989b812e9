package fqe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.Equal(t, "DuckDB Federated Query Engine", info.ProductName)
	assert.Equal(t, "duckdb-fqe", info.DriverName)
	assert.NotEqual(t, "", info.DriverVersion)

	// The adapter has no transactional, procedural or batch support.
	assert.False(t, info.SupportsTransactions)
	assert.False(t, info.SupportsStoredProcedures)
	assert.False(t, info.SupportsBatchUpdates)
	assert.True(t, info.SupportsScrollableRows)
}
