package fqe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ColumnMeta describes one column of a wire result. WireType may carry a
// NULLABLE(inner) wrapper.
type ColumnMeta struct {
	Name     string `json:"name"`
	WireType string `json:"type"`
}

// BaseType returns the wire type with any NULLABLE wrapper stripped.
func (c ColumnMeta) BaseType() string {
	inner, _ := unwrapNullable(c.WireType)
	return inner
}

// Nullable reports whether the column was declared NULLABLE.
func (c ColumnMeta) Nullable() bool {
	_, nullable := unwrapNullable(c.WireType)
	return nullable
}

// ExecStats are the execution statistics the server reports per response.
type ExecStats struct {
	ElapsedSeconds float64 `json:"elapsed"`
	RowsRead       int64   `json:"rows_read"`
	BytesRead      int64   `json:"bytes_read"`
}

// WireResult is one fully materialized response body. Row width always
// equals column width; the advisory RowCount is the server's claim and may
// disagree with len(Rows).
type WireResult struct {
	Columns  []ColumnMeta
	Rows     [][]Value
	RowCount int64
	Stats    ExecStats
}

func emptyWireResult() *WireResult {
	return &WireResult{}
}

type wireBody struct {
	Meta       []ColumnMeta    `json:"meta"`
	Data       [][]interface{} `json:"data"`
	Rows       int64           `json:"rows"`
	Statistics ExecStats       `json:"statistics"`
}

// decodeWireResult deserializes a JSONCompact response body. An empty body
// decodes to the empty result so statements without a tabular payload still
// round-trip. Malformed JSON is reported as a decode failure; queries that
// require tabular data surface it, exec paths fall back to the empty result.
func decodeWireResult(body io.Reader) (*WireResult, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecodeResult, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return emptyWireResult(), nil
	}

	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()

	var wb wireBody
	if err := d.Decode(&wb); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecodeResult, err)
	}

	result := &WireResult{
		Columns:  wb.Meta,
		RowCount: wb.Rows,
		Stats:    wb.Statistics,
	}
	if result.Columns == nil {
		result.Columns = []ColumnMeta{}
	}

	width := len(result.Columns)
	result.Rows = make([][]Value, 0, len(wb.Data))
	for _, cells := range wb.Data {
		// Ragged rows are forced to column width so the cursor can rely on
		// len(row) == len(columns): extra cells are dropped, missing cells
		// read as null.
		row := make([]Value, width)
		for i := 0; i < width; i++ {
			if i < len(cells) {
				row[i] = newValue(cells[i])
			} else {
				row[i] = Value{Kind: NullValue}
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
