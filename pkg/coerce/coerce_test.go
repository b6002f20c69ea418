package coerce

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		input string
		typ   Type
		want  any
	}{
		{"number", "42", Number, 42.0},
		{"number with spaces", " 3.5 ", Number, 3.5},
		{"number empty", "", Number, 0.0},
		{"number blank", "  ", Number, 0.0},
		{"boolean true", "true", Boolean, true},
		{"boolean presence", "", Boolean, true},
		{"boolean false", "false", Boolean, false},
		{"boolean other", "yes", Boolean, false},
		{"string", "hello", String, "hello"},
		{"null passthrough", "null", Null, "null"},
		{"array", `[1,"a"]`, Array, []any{1.0, "a"}},
		{"object", `{"a":1}`, Object, map[string]any{"a": 1.0}},
		{"object undefined", "undefined", Object, nil},
		{"object json null", "null", Object, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.input, tt.typ)
			if err != nil {
				t.Fatalf("Coerce(%q, %s) error = %v", tt.input, tt.typ, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Coerce(%q, %s) = %#v, want %#v", tt.input, tt.typ, got, tt.want)
			}
		})
	}
}

func TestCoerceNumberNaN(t *testing.T) {
	got, err := Coerce("abc", Number)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := got.(float64)
	if !ok || !math.IsNaN(f) {
		t.Errorf("Coerce(abc, number) = %v, want NaN", got)
	}
}

func TestCoerceMalformed(t *testing.T) {
	tests := []struct {
		input string
		typ   Type
	}{
		{"[1,2", Array},
		{"{a:1}", Object},
		{`{"a":1}`, Array},
		{"[1]", Object},
		{"undefined", Array},
	}

	for _, tt := range tests {
		_, err := Coerce(tt.input, tt.typ)
		var ce *CoercionError
		if !errors.As(err, &ce) {
			t.Fatalf("Coerce(%q, %s) error = %v, want *CoercionError", tt.input, tt.typ, err)
		}
		if ce.Type != tt.typ || ce.Input != tt.input {
			t.Errorf("CoercionError = %+v", ce)
		}
	}
}

func TestInferType(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *int
	tests := []struct {
		value any
		want  Type
	}{
		{nil, Null},
		{[]int{1}, Array},
		{[2]string{}, Array},
		{map[string]any{}, Object},
		{nilMap, Object},
		{struct{ A int }{}, Object},
		{nilPtr, Null},
		{1, Number},
		{uint8(1), Number},
		{2.5, Number},
		{true, Boolean},
		{"s", String},
	}

	for _, tt := range tests {
		if got := InferType(tt.value); got != tt.want {
			t.Errorf("InferType(%#v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		value   any
		typ     Type
		want    string
		present bool
	}{
		{nil, String, "", false},
		{"x", String, "x", true},
		{5, Number, "5", true},
		{2.5, Number, "2.5", true},
		{true, Boolean, "true", true},
		{false, Boolean, "false", true},
		{[]any{1.0, "a"}, Array, `[1,"a"]`, true},
		{map[string]any{"k": "v"}, Object, `{"k":"v"}`, true},
	}

	for _, tt := range tests {
		got, present, err := Serialize(tt.value, tt.typ)
		if err != nil {
			t.Fatalf("Serialize(%#v) error = %v", tt.value, err)
		}
		if got != tt.want || present != tt.present {
			t.Errorf("Serialize(%#v) = (%q, %v), want (%q, %v)", tt.value, got, present, tt.want, tt.present)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, typ := range []Type{Number, Boolean, Array, Object, String} {
		var v any
		switch typ {
		case Number:
			v = 12.25
		case Boolean:
			v = false
		case Array:
			v = []any{"a", 2.0}
		case Object:
			v = map[string]any{"n": 1.0}
		case String:
			v = "text"
		}
		text, _, err := Serialize(v, typ)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		back, err := Coerce(text, typ)
		if err != nil {
			t.Fatalf("Coerce: %v", err)
		}
		if !Equal(v, back) {
			t.Errorf("%s: round trip %#v -> %q -> %#v", typ, v, text, back)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 1, 1, true},
		{"int vs float", 5, 5.0, true},
		{"different numbers", 1, 2, false},
		{"nan", math.NaN(), math.NaN(), true},
		{"number vs string", 1, "1", false},
		{"strings", "a", "a", true},
		{"bools", true, false, false},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"equal slices by value", []any{1.0}, []any{1.0}, true},
		{"different slices", []any{1.0}, []any{2.0}, false},
		{"equal maps by value", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType("Bool"); !ok || typ != Boolean {
		t.Errorf("ParseType(Bool) = %s, %v", typ, ok)
	}
	if _, ok := ParseType("date"); ok {
		t.Error("ParseType(date) should fail")
	}
}
