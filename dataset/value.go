package dataset

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned by Value.Float for text that does not parse as
// a floating-point number.
var ErrNotNumeric = errors.New("value is not numeric")

// ErrMissing is returned by Value.Float for absent values.
var ErrMissing = errors.New("value is missing")

// Kind tags the scalar held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Value is a single cell: a string, a number, or absent.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Null returns the absent value.
func Null() Value { return Value{} }

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text coerces the value to display text. The second result is false for
// null values.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Float coerces the value to a float64. Strings are trimmed and parsed with
// strconv.ParseFloat.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, ErrMissing
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrNotNumeric
		}
		return f, nil
	default:
		return 0, ErrMissing
	}
}

// GoString renders the value for debugging output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return "null"
	}
}
