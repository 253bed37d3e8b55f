package typeconv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/voltcalc/voltcalc/pkg/telemetry"
)

// decimalLiteral matches the persisted form of a decimal value.
var decimalLiteral = regexp.MustCompile(`Decimal\('([^']+)'\)`)

// Options selects the transforms Encode applies. Transforms always run in
// the fixed order decimal coercion, stringification, quoting, regardless
// of how the options are combined. All eight combinations are legal; the
// zero value is the identity.
type Options struct {
	// AsDecimal coerces the value to arbitrary-precision decimal.
	AsDecimal bool

	// AsString renders the value as text. Decimals render as their
	// Decimal('...') literal, everything else as its canonical literal.
	AsString bool

	// Quote wraps a text value in single quotes, or double quotes when
	// the text itself contains a single quote. Quoting a non-text value
	// is an error.
	Quote bool
}

// Codec converts between typed values and their textual literal form.
// Conversion failures are logged before they are returned.
type Codec struct {
	log *telemetry.Logger
}

// NewCodec creates a codec. A nil logger disables logging.
func NewCodec(log *telemetry.Logger) *Codec {
	if log == nil {
		log = telemetry.Nop()
	}
	return &Codec{log: log.NewComponentLogger("typeconv")}
}

// Decode parses a textual literal into its typed form.
//
// A Decimal('<digits>') literal produces a decimal value. Otherwise the
// text is parsed with the literal grammar: True/False, None, integer,
// float, or a quoted string. Text matching none of these is retained as a
// plain string, never an error.
func (c *Codec) Decode(text string) (Value, error) {
	if m := decimalLiteral.FindStringSubmatch(text); m != nil {
		d, _, err := apd.NewFromString(m[1])
		if err != nil {
			cerr := &ConvertError{Op: OpDecimal, Input: m[1], Err: err}
			c.log.Error(cerr.Error())
			return Absent(), cerr
		}
		return Decimal(d), nil
	}
	return parseLiteral(text), nil
}

// Encode applies the requested transforms to a value. An absent input
// short-circuits to absent without invoking any transform, and the
// identity option set returns the value unchanged.
func (c *Codec) Encode(v Value, opts Options) (Value, error) {
	if v.IsAbsent() {
		return v, nil
	}

	var err error
	if opts.AsDecimal {
		if v, err = c.toDecimal(v); err != nil {
			return Absent(), err
		}
	}
	if opts.AsString {
		v = toString(v)
	}
	if opts.Quote {
		if v, err = c.quote(v); err != nil {
			return Absent(), err
		}
	}
	return v, nil
}

// EncodeText decodes a bare textual literal and then applies the
// requested transforms, so callers can normalize-then-format a value
// regardless of whether it currently exists as text or in typed form.
func (c *Codec) EncodeText(text string, opts Options) (Value, error) {
	v, err := c.Decode(text)
	if err != nil {
		return Absent(), err
	}
	return c.Encode(v, opts)
}

// toDecimal coerces a value to the decimal kind. Floats pass through
// their shortest round-trip string representation first so binary float
// noise does not leak into the decimal. Booleans coerce to 1 and 0,
// keeping enable/disable flags stable in the decimal path.
func (c *Codec) toDecimal(v Value) (Value, error) {
	switch v.kind {
	case KindDecimal:
		return v, nil
	case KindBool:
		if v.b {
			return Decimal(apd.New(1, 0)), nil
		}
		return Decimal(apd.New(0, 0)), nil
	case KindInt:
		return Decimal(apd.New(v.i, 0)), nil
	case KindFloat:
		d, _, err := apd.NewFromString(formatFloat(v.f))
		if err != nil {
			return Absent(), c.decimalError(v, err)
		}
		return Decimal(d), nil
	case KindString:
		d, _, err := apd.NewFromString(v.str)
		if err != nil {
			return Absent(), c.decimalError(v, err)
		}
		return Decimal(d), nil
	default:
		return Absent(), c.decimalError(v, nil)
	}
}

func (c *Codec) decimalError(v Value, err error) error {
	cerr := &ConvertError{Op: OpDecimal, Input: v.literal(), Err: err}
	c.log.Error(cerr.Error())
	return cerr
}

// toString renders a value as text. Decimals keep their re-parseable
// Decimal('...') literal form.
func toString(v Value) Value {
	if v.kind == KindString {
		return v
	}
	if v.kind == KindDecimal {
		return String(fmt.Sprintf("Decimal('%s')", v.dec.String()))
	}
	return String(v.literal())
}

// quote wraps a text value in quotes, switching to double quotes when the
// text already contains a single quote.
func (c *Codec) quote(v Value) (Value, error) {
	if v.kind != KindString {
		cerr := &ConvertError{Op: OpQuote, Input: v.literal(),
			Err: fmt.Errorf("value is %s, combine with AsString", v.kind)}
		c.log.Error(cerr.Error())
		return Absent(), cerr
	}
	if strings.Contains(v.str, "'") {
		return String(`"` + v.str + `"`), nil
	}
	return String("'" + v.str + "'"), nil
}

// parseLiteral applies the generic literal grammar. Unparseable text is
// retained as itself.
func parseLiteral(text string) Value {
	switch text {
	case "True":
		return Bool(true)
	case "False":
		return Bool(false)
	case "None":
		return Absent()
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f)
	}
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return String(text[1 : len(text)-1])
		}
	}
	return String(text)
}
