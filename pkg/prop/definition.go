package prop

import (
	"sort"

	"github.com/vango-dev/velement/pkg/coerce"
)

// Definition is the normalized schema of one reactive property.
type Definition struct {
	// Type is the semantic type used to coerce attribute text. Untyped
	// definitions take the type of their default.
	Type coerce.Type

	// Default is the initial value when neither an external reference nor
	// an attribute supplies one.
	Default any

	// Reflect propagates writes to the host attribute of the same name.
	Reflect bool

	// NoRender suppresses re-rendering when this property changes.
	NoRender bool

	// Ref, when set, is the property's source of truth.
	Ref ExternalRef
}

// Definitions maps property keys to their normalized definitions.
type Definitions map[string]Definition

// Keys returns the declared keys in sorted order.
func (d Definitions) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize turns a raw property declaration into a Definition.
//
// raw may be an ExternalRef, a Definition (or *Definition), or any other
// value, which is taken as the literal default.
func Normalize(raw any) Definition {
	switch d := raw.(type) {
	case ExternalRef:
		v := d.Get()
		return Definition{Ref: d, Type: coerce.InferType(v), Default: v}
	case Definition:
		return finishDefinition(d)
	case *Definition:
		if d == nil {
			return Definition{Type: coerce.Null}
		}
		return finishDefinition(*d)
	default:
		return Definition{Default: raw, Type: coerce.InferType(raw)}
	}
}

// finishDefinition fills in the type of a schema declared without one.
func finishDefinition(d Definition) Definition {
	if d.Ref != nil && d.Default == nil {
		d.Default = d.Ref.Get()
	}
	if d.Type == coerce.Untyped {
		d.Type = coerce.InferType(d.Default)
	}
	return d
}

// NormalizeAll normalizes every raw declaration in props.
func NormalizeAll(props map[string]any) Definitions {
	defs := make(Definitions, len(props))
	for k, raw := range props {
		defs[k] = Normalize(raw)
	}
	return defs
}
