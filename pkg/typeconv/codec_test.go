package typeconv

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

// mustDecimal builds a decimal value for fixtures
func mustDecimal(t *testing.T, s string) Value {
	t.Helper()
	v, err := DecimalFromString(s)
	if err != nil {
		t.Fatalf("failed to build decimal %q: %v", s, err)
	}
	return v
}

// TestDecode tests the literal grammar
func TestDecode(t *testing.T) {
	codec := NewCodec(nil)

	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"bool true", "True", Bool(true)},
		{"bool false", "False", Bool(false)},
		{"none", "None", Absent()},
		{"integer", "3", Int(3)},
		{"negative integer", "-42", Int(-42)},
		{"leading zero integer", "010", Int(10)},
		{"hex stays text", "0x1F", String("0x1F")},
		{"float", "0.4", Float(0.4)},
		{"whole float", "5.0", Float(5)},
		{"scientific float", "1e3", Float(1000)},
		{"single quoted string", "'electrical_product_catalog.db'", String("electrical_product_catalog.db")},
		{"double quoted string", `"It's"`, String("It's")},
		{"bare string", "SQLite", String("SQLite")},
		{"bare string with spaces", "not a literal", String("not a literal")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Decode(tt.input)
			if err != nil {
				t.Fatalf("failed to decode %q: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("decoded %q to %s (%s), want %s (%s)",
					tt.input, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

// TestDecodeDecimalLiteral tests the Decimal('...') pattern
func TestDecodeDecimalLiteral(t *testing.T) {
	codec := NewCodec(nil)

	got, err := codec.Decode("Decimal('0.4')")
	if err != nil {
		t.Fatalf("failed to decode decimal literal: %v", err)
	}
	if got.Kind() != KindDecimal {
		t.Fatalf("expected decimal kind, got %s", got.Kind())
	}
	if got.Decimal().Cmp(apd.New(4, -1)) != 0 {
		t.Errorf("expected 0.4, got %s", got.Decimal())
	}
}

// TestDecodeMalformedDecimal tests that a broken decimal literal fails
func TestDecodeMalformedDecimal(t *testing.T) {
	codec := NewCodec(nil)

	_, err := codec.Decode("Decimal('abc')")
	if err == nil {
		t.Fatal("expected error for malformed decimal literal")
	}

	var cerr *ConvertError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConvertError, got %T", err)
	}
	if cerr.Op != OpDecimal {
		t.Errorf("expected op %q, got %q", OpDecimal, cerr.Op)
	}
}

// TestEncodeMatrix verifies all 8 option combinations on a float value
func TestEncodeMatrix(t *testing.T) {
	codec := NewCodec(nil)

	tests := []struct {
		name    string
		opts    Options
		want    Value
		wantErr bool
	}{
		{"identity", Options{}, Float(1.5), false},
		{"decimal", Options{AsDecimal: true}, mustDecimal(t, "1.5"), false},
		{"string", Options{AsString: true}, String("1.5"), false},
		{"quote alone fails on non-string", Options{Quote: true}, Value{}, true},
		{"decimal string", Options{AsDecimal: true, AsString: true}, String("Decimal('1.5')"), false},
		{"string quote", Options{AsString: true, Quote: true}, String("'1.5'"), false},
		{"decimal quote fails without string", Options{AsDecimal: true, Quote: true}, Value{}, true},
		{"decimal string quote", Options{AsDecimal: true, AsString: true, Quote: true}, String(`"Decimal('1.5')"`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Encode(Float(1.5), tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s (%s), want %s (%s)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

// TestEncodeIdentity tests that the zero option set returns values unchanged
func TestEncodeIdentity(t *testing.T) {
	codec := NewCodec(nil)

	values := []Value{
		Absent(),
		String("plain"),
		Bool(true),
		Int(3),
		Float(0.4),
		mustDecimal(t, "0.4"),
	}

	for _, v := range values {
		got, err := codec.Encode(v, Options{})
		if err != nil {
			t.Fatalf("identity encode of %s failed: %v", v.Kind(), err)
		}
		if !got.Equal(v) {
			t.Errorf("identity encode changed %s value: got %s, want %s", v.Kind(), got, v)
		}
	}
}

// TestRoundTrip tests that stringified values decode back to equal values
func TestRoundTrip(t *testing.T) {
	codec := NewCodec(nil)

	values := []Value{
		String("plain"),
		Bool(true),
		Bool(false),
		Int(3),
		Float(0.4),
		Float(5),
		Float(1e21),
		mustDecimal(t, "0.4"),
	}

	for _, v := range values {
		encoded, err := codec.Encode(v, Options{AsString: true})
		if err != nil {
			t.Fatalf("encode of %s failed: %v", v.Kind(), err)
		}
		decoded, err := codec.Decode(encoded.Text())
		if err != nil {
			t.Fatalf("decode of %q failed: %v", encoded.Text(), err)
		}
		if !decoded.Equal(v) {
			t.Errorf("round trip of %s (%s) produced %s (%s)", v, v.Kind(), decoded, decoded.Kind())
		}
	}

	// The absent value short-circuits: no transform is applied.
	encoded, err := codec.Encode(Absent(), Options{AsString: true})
	if err != nil {
		t.Fatalf("encode of absent failed: %v", err)
	}
	if !encoded.IsAbsent() {
		t.Errorf("expected absent to short-circuit, got %s", encoded.Kind())
	}

	// The textual None literal decodes to absent.
	decoded, err := codec.Decode("None")
	if err != nil {
		t.Fatalf("decode of None failed: %v", err)
	}
	if !decoded.IsAbsent() {
		t.Errorf("expected None to decode to absent, got %s", decoded.Kind())
	}
}

// TestWholeFloatKeepsPoint tests that integral floats stringify with a
// decimal point and keep the float kind across a round trip
func TestWholeFloatKeepsPoint(t *testing.T) {
	codec := NewCodec(nil)

	encoded, err := codec.Encode(Float(5), Options{AsString: true})
	if err != nil {
		t.Fatalf("failed to stringify float: %v", err)
	}
	if encoded.Text() != "5.0" {
		t.Fatalf("expected 5.0, got %q", encoded.Text())
	}

	decoded, err := codec.Decode(encoded.Text())
	if err != nil {
		t.Fatalf("failed to decode %q: %v", encoded.Text(), err)
	}
	if decoded.Kind() != KindFloat || decoded.Float64() != 5 {
		t.Errorf("round trip lost the float kind: got %s (%s)", decoded, decoded.Kind())
	}
}

// TestQuotingNormalization tests single vs double quote selection
func TestQuotingNormalization(t *testing.T) {
	codec := NewCodec(nil)

	plain, err := codec.Encode(String("plain"), Options{Quote: true})
	if err != nil {
		t.Fatalf("failed to quote plain string: %v", err)
	}
	if plain.Text() != "'plain'" {
		t.Errorf("expected 'plain', got %s", plain.Text())
	}

	apostrophe, err := codec.Encode(String("It's"), Options{Quote: true})
	if err != nil {
		t.Fatalf("failed to quote string with apostrophe: %v", err)
	}
	if apostrophe.Text() != `"It's"` {
		t.Errorf(`expected "It's", got %s`, apostrophe.Text())
	}
}

// TestQuoteNonString tests that quoting a non-text value is an error
func TestQuoteNonString(t *testing.T) {
	codec := NewCodec(nil)

	_, err := codec.Encode(Bool(false), Options{Quote: true})
	if err == nil {
		t.Fatal("expected error quoting a boolean")
	}

	var cerr *ConvertError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConvertError, got %T", err)
	}
	if cerr.Op != OpQuote {
		t.Errorf("expected op %q, got %q", OpQuote, cerr.Op)
	}
}

// TestDecimalCoercion tests boolean and float decimal coercion semantics
func TestDecimalCoercion(t *testing.T) {
	codec := NewCodec(nil)

	enabled, err := codec.Encode(Bool(true), Options{AsDecimal: true})
	if err != nil {
		t.Fatalf("failed to coerce true: %v", err)
	}
	if enabled.Decimal().Cmp(apd.New(1, 0)) != 0 {
		t.Errorf("expected true to coerce to 1, got %s", enabled.Decimal())
	}

	disabled, err := codec.Encode(Bool(false), Options{AsDecimal: true})
	if err != nil {
		t.Fatalf("failed to coerce false: %v", err)
	}
	if disabled.Decimal().Cmp(apd.New(0, 0)) != 0 {
		t.Errorf("expected false to coerce to 0, got %s", disabled.Decimal())
	}

	// Floats pass through their shortest representation, so no binary
	// noise appears in the decimal.
	f, err := codec.Encode(Float(0.4), Options{AsDecimal: true, AsString: true})
	if err != nil {
		t.Fatalf("failed to coerce float: %v", err)
	}
	if f.Text() != "Decimal('0.4')" {
		t.Errorf("expected Decimal('0.4'), got %s", f.Text())
	}

	_, err = codec.Encode(String("not a number"), Options{AsDecimal: true})
	if err == nil {
		t.Fatal("expected error coercing non-numeric text to decimal")
	}
}

// TestDecimalLiteralForm tests the persisted decimal literal shape
func TestDecimalLiteralForm(t *testing.T) {
	codec := NewCodec(nil)

	encoded, err := codec.Encode(mustDecimal(t, "1.5"), Options{AsDecimal: true, AsString: true})
	if err != nil {
		t.Fatalf("failed to encode decimal: %v", err)
	}
	if encoded.Text() != "Decimal('1.5')" {
		t.Fatalf("expected Decimal('1.5'), got %s", encoded.Text())
	}

	decoded, err := codec.Decode(encoded.Text())
	if err != nil {
		t.Fatalf("failed to decode literal: %v", err)
	}
	if decoded.Kind() != KindDecimal || decoded.Decimal().Cmp(apd.New(15, -1)) != 0 {
		t.Errorf("expected decimal 1.5, got %s (%s)", decoded, decoded.Kind())
	}
}

// TestEncodeText tests the normalize-then-format entry point
func TestEncodeText(t *testing.T) {
	codec := NewCodec(nil)

	got, err := codec.EncodeText("1.5", Options{AsDecimal: true, AsString: true, Quote: true})
	if err != nil {
		t.Fatalf("failed to encode text: %v", err)
	}
	if got.Text() != `"Decimal('1.5')"` {
		t.Errorf(`expected "Decimal('1.5')", got %s`, got.Text())
	}

	// A stored decimal literal normalizes back through its typed form.
	normalized, err := codec.EncodeText("Decimal('0.4')", Options{AsString: true})
	if err != nil {
		t.Fatalf("failed to normalize decimal literal: %v", err)
	}
	if normalized.Text() != "Decimal('0.4')" {
		t.Errorf("expected Decimal('0.4'), got %s", normalized.Text())
	}
}
