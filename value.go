package fqe

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the wire representation of a decoded cell.
type ValueKind uint

const (
	NullValue ValueKind = iota
	BoolValue
	IntValue
	FloatValue
	TextValue
)

func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "NullValue"
	case BoolValue:
		return "BoolValue"
	case IntValue:
		return "IntValue"
	case FloatValue:
		return "FloatValue"
	case TextValue:
		return "TextValue"
	default:
		return "Error"
	}
}

// Value is one decoded wire cell: a tagged union over the scalar shapes the
// JSON body can carry. Coercion to a requested representation is a pure
// function of the value, independent of any cursor state.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Text  string
}

// newValue classifies a raw decoded JSON cell. Numbers arrive as
// json.Number so integers survive undamaged.
func newValue(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: NullValue}
	case bool:
		return Value{Kind: BoolValue, Bool: v}
	case string:
		return Value{Kind: TextValue, Text: v}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Value{Kind: IntValue, Int: i}
		}
		f, _ := v.Float64()
		return Value{Kind: FloatValue, Float: f}
	case float64:
		return Value{Kind: FloatValue, Float: v}
	default:
		// Compound cells (arrays, objects) are exposed as their JSON text.
		b, _ := json.Marshal(v)
		return Value{Kind: TextValue, Text: string(b)}
	}
}

// truthyTokens are the text values that coerce to boolean true.
var truthyTokens = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
}

// temporalLayouts are tried in order when coercing text to a time.
var temporalLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"15:04:05",
}

// asInt64 coerces the value to an integer. Text that fails to parse
// degrades to zero without marking the null flag; only a genuine null does.
func (v Value) asInt64() (int64, bool) {
	switch v.Kind {
	case NullValue:
		return 0, true
	case BoolValue:
		if v.Bool {
			return 1, false
		}
		return 0, false
	case IntValue:
		return v.Int, false
	case FloatValue:
		return int64(v.Float), false
	default:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Text), 10, 64)
		if err != nil {
			// Integer text with a fractional part still truncates.
			if f, ferr := strconv.ParseFloat(strings.TrimSpace(v.Text), 64); ferr == nil {
				return int64(f), false
			}
			return 0, false
		}
		return i, false
	}
}

func (v Value) asFloat64() (float64, bool) {
	switch v.Kind {
	case NullValue:
		return 0, true
	case BoolValue:
		if v.Bool {
			return 1, false
		}
		return 0, false
	case IntValue:
		return float64(v.Int), false
	case FloatValue:
		return v.Float, false
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, false
	}
}

func (v Value) asBool() (bool, bool) {
	switch v.Kind {
	case NullValue:
		return false, true
	case BoolValue:
		return v.Bool, false
	case IntValue:
		return v.Int != 0, false
	case FloatValue:
		return v.Float != 0, false
	default:
		return truthyTokens[strings.ToLower(strings.TrimSpace(v.Text))], false
	}
}

func (v Value) asString() (string, bool) {
	switch v.Kind {
	case NullValue:
		return "", true
	case BoolValue:
		if v.Bool {
			return "true", false
		}
		return "false", false
	case IntValue:
		return strconv.FormatInt(v.Int, 10), false
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), false
	default:
		return v.Text, false
	}
}

// asTime coerces the value to a timestamp. Unlike the numeric coercions,
// unparsable temporal text falls back to null: the zero time with the null
// flag set.
func (v Value) asTime() (time.Time, bool) {
	if v.Kind != TextValue {
		return time.Time{}, true
	}

	text := strings.TrimSpace(v.Text)
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, false
		}
	}

	return time.Time{}, true
}

// IsNull reports whether the cell held a genuine wire null.
func (v Value) IsNull() bool {
	return v.Kind == NullValue
}

// unwrapNullable strips a NULLABLE(inner) wrapper from a wire type name,
// reporting whether the wrapper was present. The inner type governs
// coercion; the wrapper only affects nullability reporting.
func unwrapNullable(wireType string) (string, bool) {
	trimmed := strings.TrimSpace(wireType)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "NULLABLE(") && strings.HasSuffix(upper, ")") {
		return trimmed[len("NULLABLE(") : len(trimmed)-1], true
	}
	return trimmed, false
}
