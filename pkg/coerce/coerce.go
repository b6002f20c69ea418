package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Type is the semantic type of a property value.
type Type uint8

const (
	// Untyped asks Normalize to infer the type from the default value.
	Untyped Type = iota
	String
	Number
	Boolean
	Array
	Object
	Null
)

// String returns the lower-case name of the type.
func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Array:
		return "array"
	case Object:
		return "object"
	case Null:
		return "null"
	default:
		return "untyped"
	}
}

// ParseType maps a type name (as written in manifests) to a Type.
func ParseType(name string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string":
		return String, true
	case "number":
		return Number, true
	case "boolean", "bool":
		return Boolean, true
	case "array":
		return Array, true
	case "object":
		return Object, true
	case "null":
		return Null, true
	}
	return Untyped, false
}

// undefinedObject is treated as "no value" for Object properties.
const undefinedObject = "undefined"

// CoercionError reports a malformed serialized structural value.
type CoercionError struct {
	Type  Type
	Input string
	Err   error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce: cannot parse %q as %s: %v", e.Input, e.Type, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

var (
	errMalformed    = errors.New("malformed JSON")
	errKindMismatch = errors.New("parsed value has the wrong kind")
)

// Coerce converts a serialized attribute value to the given semantic type.
//
// Empty or blank number text yields 0. Other number text that does not
// parse yields NaN rather than an error. Object text "undefined" yields
// (nil, nil). Only malformed Array/Object text fails.
func Coerce(serialized string, t Type) (any, error) {
	switch t {
	case Number:
		text := strings.TrimSpace(serialized)
		if text == "" {
			return 0.0, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	case Boolean:
		return serialized == "true" || serialized == "", nil
	case Array:
		return parseStructured(serialized, t)
	case Object:
		if serialized == undefinedObject {
			return nil, nil
		}
		return parseStructured(serialized, t)
	default:
		return serialized, nil
	}
}

func parseStructured(serialized string, t Type) (any, error) {
	if !gjson.Valid(serialized) {
		return nil, &CoercionError{Type: t, Input: serialized, Err: errMalformed}
	}
	res := gjson.Parse(serialized)
	switch {
	case t == Array && res.IsArray():
	case t == Object && res.IsObject():
	case res.Type == gjson.Null:
		return nil, nil
	default:
		return nil, &CoercionError{Type: t, Input: serialized, Err: errKindMismatch}
	}
	return res.Value(), nil
}

// InferType returns the semantic type of an example value.
func InferType(v any) Type {
	if v == nil {
		return Null
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Array
	case reflect.Map, reflect.Struct:
		return Object
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		return InferType(rv.Elem().Interface())
	case reflect.Bool:
		return Boolean
	case reflect.String:
		return String
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	default:
		return Object
	}
}

// Serialize renders a value in its attribute form. present is false when the
// attribute should be removed instead (nil values).
func Serialize(v any, t Type) (text string, present bool, err error) {
	if v == nil {
		return "", false, nil
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true, nil
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	case fmt.Stringer:
		if t == String {
			return val.String(), true, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, &CoercionError{Type: t, Input: fmt.Sprintf("%v", v), Err: err}
	}
	return string(b), true, nil
}

// Equal reports whether two property values are the same for change
// detection. Numbers of any Go kind compare by float64 value and NaN equals
// NaN; slices, maps and structs compare deeply.
func Equal(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		if !aNum || !bNum {
			return false
		}
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ToFloat converts any Go numeric value to float64. Non-numeric values
// report false.
func ToFloat(v any) (float64, bool) {
	return toFloat(v)
}
