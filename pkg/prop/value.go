package prop

// Value is the right-hand side of a property write: either a literal value
// or an updater resolved against the previous value.
type Value struct {
	literal any
	update  func(prev any) any
}

// Literal returns a Value that stores v as-is, even when v is a function.
func Literal(v any) Value {
	return Value{literal: v}
}

// Updater returns a Value computed from the previous value at write time.
func Updater(fn func(prev any) any) Value {
	return Value{update: fn}
}

// IsUpdater reports whether the value is computed from the previous one.
func (v Value) IsUpdater() bool {
	return v.update != nil
}

// Resolve returns the value to store given the previous value.
func (v Value) Resolve(prev any) any {
	if v.update != nil {
		return v.update(prev)
	}
	return v.literal
}

// Origin identifies where a property write came from.
type Origin uint8

const (
	// OriginLocal is a write from component code or a plugin.
	OriginLocal Origin = iota
	// OriginAttribute is an out-of-band host attribute mutation.
	OriginAttribute
	// OriginExternal is a push from the property's ExternalRef.
	OriginExternal
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginAttribute:
		return "attribute"
	case OriginExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Mutation carries the options of a single property write.
type Mutation struct {
	Origin    Origin
	NoReflect bool
}

// KeyValue is one entry of an ordered multi-write.
type KeyValue struct {
	Key   string
	Value Value
}

// Props is a snapshot of property values keyed by property name.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
