// Package coerce converts serialized attribute text into typed property
// values and back.
//
// Every declared property has a semantic Type. Attribute values always arrive
// as strings, so the property store runs them through Coerce before they are
// stored, and through Serialize when a property reflects to its attribute:
//
//	v, err := coerce.Coerce("42", coerce.Number)   // float64(42)
//	v, err = coerce.Coerce("", coerce.Boolean)     // true (presence-only)
//	v, err = coerce.Coerce(`[1,2]`, coerce.Array)  // []any{1.0, 2.0}
//
// Structured values (Array, Object) are parsed with gjson. Malformed input
// for those types is the only failure mode and is reported as a
// *CoercionError.
package coerce
