package typeconv

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies the type of a Value. The set is closed: every
// configuration parameter decodes to exactly one of these kinds.
type Kind uint8

const (
	// KindAbsent marks a missing parameter or an explicit None literal.
	KindAbsent Kind = iota
	// KindString is plain text.
	KindString
	// KindBool is a boolean flag.
	KindBool
	// KindInt is a signed integer.
	KindInt
	// KindFloat is a binary floating-point number.
	KindFloat
	// KindDecimal is an arbitrary-precision decimal.
	KindDecimal
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Value is the decoded, strongly-typed form of a configuration entry.
// The zero value is the absent value.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	f    float64
	dec  *apd.Decimal
}

// Absent returns the absent value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// String returns a text value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Decimal returns an arbitrary-precision decimal value.
func Decimal(d *apd.Decimal) Value {
	return Value{kind: KindDecimal, dec: d}
}

// DecimalFromString parses a decimal literal into a decimal value.
func DecimalFromString(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Absent(), &ConvertError{Op: OpDecimal, Input: s, Err: err}
	}
	return Decimal(d), nil
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Text returns the underlying string. Valid only for KindString.
func (v Value) Text() string {
	return v.str
}

// Bool returns the underlying boolean. Valid only for KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Int64 returns the underlying integer. Valid only for KindInt.
func (v Value) Int64() int64 {
	return v.i
}

// Float64 returns the underlying float. Valid only for KindFloat.
func (v Value) Float64() float64 {
	return v.f
}

// Decimal returns the underlying decimal. Valid only for KindDecimal.
func (v Value) Decimal() *apd.Decimal {
	return v.dec
}

// Native unwraps the value into its Go representation. Absent values
// unwrap to nil.
func (v Value) Native() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindDecimal:
		return v.dec
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
// Decimals compare numerically, so Decimal('1.5') equals Decimal('1.50').
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindDecimal:
		return v.dec.Cmp(o.dec) == 0
	default:
		return false
	}
}

// String renders the value in its canonical literal form. Text values
// render unquoted; use Encode with Quote for the quoted form.
func (v Value) String() string {
	return v.literal()
}

// literal renders the canonical single-line literal for the value.
func (v Value) literal() string {
	switch v.kind {
	case KindAbsent:
		return "None"
	case KindString:
		return v.str
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindDecimal:
		return v.dec.String()
	default:
		return ""
	}
}

// formatFloat renders a float in its shortest round-trip form. Whole
// values keep a trailing ".0" so the literal stays distinguishable from
// an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(f, 0) && !math.IsNaN(f) {
		s += ".0"
	}
	return s
}
