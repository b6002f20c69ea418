// Package prop implements the reactive property engine behind an element:
// property definitions, external references and the live property store.
//
// # Definitions
//
// A property can be declared three ways, all normalized by Normalize:
//
//	props := map[string]any{
//	    "label": "Clicks",                                  // literal default
//	    "count": prop.Definition{Type: coerce.Number, Reflect: true},
//	    "theme": themeRef,                                  // prop.ExternalRef
//	}
//
// # Updates
//
// Every write goes through Store.Set with a Value and a Mutation. A Value is
// either Literal(v) or Updater(fn); the latter is resolved against the
// previous value so that two synchronous increments never race:
//
//	store.Set("count", prop.Updater(func(prev any) any {
//	    n, _ := coerce.ToFloat(prev)
//	    return n + 1
//	}), prop.Mutation{})
//
// The Mutation's Origin tags where the write came from. Writes that came from
// an external reference are never pushed back to it.
//
// # Thread Safety
//
// Store is not thread-safe. It belongs to a single element and must only be
// used from that element's loop goroutine. Ref is thread-safe.
package prop
