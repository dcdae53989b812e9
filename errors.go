package fqe

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidDescriptor is returned when a connection string does not
	// start with the fqe:// prefix.
	ErrInvalidDescriptor = errors.New("Invalid connection descriptor")
	// ErrConnectFailed is returned when the liveness probe fails at
	// connection-open time.
	ErrConnectFailed         = errors.New("Connection attempt failed")
	ErrServerUnavailable     = errors.New("Server is not available")
	ErrTransport             = errors.New("Transport failure")
	ErrDecodeResult          = errors.New("Malformed result payload")
	ErrInvalidCursorPosition = errors.New("Cursor is not positioned on a row")
	ErrInvalidColumnIndex    = errors.New("Column index out of range")
	// ErrColumnNotFound is returned by name-based lookups for unknown labels
	ErrColumnNotFound   = errors.New("Column does not exist")
	ErrConnClosed       = errors.New("Connection is closed")
	ErrStatementClosed  = errors.New("Statement is closed")
	ErrRowsClosed       = errors.New("Result set is closed")
	ErrUnboundParameter = errors.New("Statement has unbound parameters")
	ErrParameterIndex   = errors.New("Parameter index out of range")
	ErrUnsupported      = errors.New("Operation is not supported")
)

// ServerError is returned when a well-formed request comes back with a
// non-success HTTP status. It carries the status code and response body.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server returned %d %s: %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}
