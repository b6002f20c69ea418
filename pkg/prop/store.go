package prop

import (
	"log/slog"
	"sort"

	"github.com/vango-dev/velement/internal/errors"
	"github.com/vango-dev/velement/pkg/coerce"
)

// AttributeReader reads serialized host attributes.
type AttributeReader interface {
	Attribute(name string) (string, bool)
}

// Sink receives the side effects of property writes. An element implements
// it to reflect attributes, run its update hook and schedule renders.
type Sink interface {
	// Reflect writes the serialized value to the host attribute. present
	// is false when the attribute should be removed.
	Reflect(key, text string, present bool)

	// Changed is called once per changed key with that key alone in
	// changed and the full current property set in all.
	Changed(changed, all Props)

	// RequestRender asks for a render after a change to a rendering
	// property. The sink decides whether the element is mounted.
	RequestRender()

	// Warning reports a recoverable misuse such as an unknown key.
	Warning(w Warning)
}

// WarningKind classifies recoverable store warnings.
type WarningKind string

const (
	WarnUnknownKey        WarningKind = "unknown_key"
	WarnMissingDefinition WarningKind = "missing_definition"
	WarnReflect           WarningKind = "reflect"
)

// Warning is a recoverable store problem. The triggering operation was a
// no-op.
type Warning struct {
	Kind WarningKind
	Key  string
	Op   string
	Err  error
}

// Store is the live map of property values of one element.
//
// The set of keys is fixed at construction. Reads and writes of other keys
// are rejected with a logged warning.
type Store struct {
	defs   Definitions
	keys   []string
	values map[string]any
	sink   Sink
	logger *slog.Logger

	unsubs     map[string]func()
	subscribed bool
	resync     bool
}

// NewStore builds the initial property values. Each key takes, in order of
// preference, its external reference's value, its coerced host attribute or
// its default. A malformed structural attribute aborts construction with a
// *coerce.CoercionError.
func NewStore(defs Definitions, attrs AttributeReader, sink Sink, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		defs:   defs,
		keys:   defs.Keys(),
		values: make(map[string]any, len(defs)),
		sink:   sink,
		logger: logger,
		unsubs: make(map[string]func()),
	}

	for _, key := range s.keys {
		def := defs[key]
		switch {
		case def.Ref != nil:
			s.values[key] = def.Ref.Get()
		case attrs != nil:
			if text, ok := attrs.Attribute(key); ok {
				v, err := coerce.Coerce(text, def.Type)
				if err != nil {
					return nil, errors.New("E102").
						WithDetail("attribute " + key + " could not be coerced to " + def.Type.String()).
						Wrap(err)
				}
				s.values[key] = v
				continue
			}
			s.values[key] = def.Default
		default:
			s.values[key] = def.Default
		}
	}

	return s, nil
}

// Subscribe binds every external reference so that its pushes update the
// store. It is a no-op while already subscribed. After an Unsubscribe, the
// current reference values are pulled first since pushes were missed.
//
// Pushes are applied on the goroutine that calls ExternalRef.Set.
func (s *Store) Subscribe() {
	if s.subscribed {
		return
	}
	s.subscribed = true

	for _, key := range s.keys {
		def := s.defs[key]
		if def.Ref == nil {
			continue
		}
		if s.resync {
			s.Set(key, Literal(def.Ref.Get()), Mutation{Origin: OriginExternal, NoReflect: true})
		}
		key := key
		s.unsubs[key] = def.Ref.Subscribe(func(v any) {
			s.Set(key, Literal(v), Mutation{Origin: OriginExternal, NoReflect: true})
		})
	}
}

// Unsubscribe releases every external reference subscription.
func (s *Store) Unsubscribe() {
	for key, unsub := range s.unsubs {
		unsub()
		delete(s.unsubs, key)
	}
	if s.subscribed {
		s.resync = true
	}
	s.subscribed = false
}

// Subscribed reports whether external references are currently bound.
func (s *Store) Subscribed() bool {
	return s.subscribed
}

// Has reports whether key is a declared property.
func (s *Store) Has(key string) bool {
	_, ok := s.defs[key]
	return ok
}

// Keys returns the declared keys in sorted order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Definition returns the normalized definition of key.
func (s *Store) Definition(key string) (Definition, bool) {
	d, ok := s.defs[key]
	return d, ok
}

// Get returns the current value of key. Unknown keys log a warning and
// report false.
func (s *Store) Get(key string) (any, bool) {
	if _, ok := s.defs[key]; !ok {
		s.warn(Warning{Kind: WarnUnknownKey, Key: key, Op: "get"})
		return nil, false
	}
	return s.values[key], true
}

// Snapshot returns a copy of all current values.
func (s *Store) Snapshot() Props {
	out := make(Props, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set writes one property and reports whether its value changed.
//
// Unchanged values (per coerce.Equal) have no effect. A change is stored,
// then reflected to the host attribute, then announced to the sink, then
// pushed to the external reference unless it came from there, and finally
// a render is requested unless the property is NoRender.
func (s *Store) Set(key string, v Value, m Mutation) bool {
	def, ok := s.defs[key]
	if !ok {
		s.warn(Warning{Kind: WarnUnknownKey, Key: key, Op: "set"})
		return false
	}

	prev := s.values[key]
	next := v.Resolve(prev)
	if coerce.Equal(prev, next) {
		return false
	}
	s.values[key] = next

	if def.Reflect && !m.NoReflect {
		s.reflect(key, def, next)
	}
	if s.sink != nil {
		s.sink.Changed(Props{key: next}, s.Snapshot())
	}
	if def.Ref != nil && m.Origin != OriginExternal {
		def.Ref.Set(next)
	}
	if !def.NoRender && s.sink != nil {
		s.sink.RequestRender()
	}
	return true
}

// SetMultiple applies each update in order. Every key is evaluated and
// announced on its own.
func (s *Store) SetMultiple(updates []KeyValue, m Mutation) {
	for _, kv := range updates {
		s.Set(kv.Key, kv.Value, m)
	}
}

// AttributeChanged applies an out-of-band host attribute mutation.
//
// The value is coerced and written without reflection. Properties bound to
// an external reference ignore attribute changes, and attributes with no
// matching definition are ignored. A removed attribute resets booleans to
// false and other types to their default.
func (s *Store) AttributeChanged(key, text string, present bool) error {
	def, ok := s.defs[key]
	if !ok {
		s.logger.Debug("attribute has no property definition",
			"code", "E103",
			"key", key)
		return nil
	}
	if def.Ref != nil {
		return nil
	}

	var v any
	switch {
	case !present && def.Type == coerce.Boolean:
		v = false
	case !present:
		v = def.Default
	default:
		var err error
		v, err = coerce.Coerce(text, def.Type)
		if err != nil {
			return errors.New("E102").
				WithDetail("attribute " + key + " could not be coerced to " + def.Type.String()).
				Wrap(err)
		}
	}

	s.Set(key, Literal(v), Mutation{Origin: OriginAttribute, NoReflect: true})
	return nil
}

func (s *Store) reflect(key string, def Definition, v any) {
	text, present, err := coerce.Serialize(v, def.Type)
	if err != nil {
		s.warn(Warning{Kind: WarnReflect, Key: key, Op: "reflect", Err: err})
		return
	}
	if s.sink != nil {
		s.sink.Reflect(key, text, present)
	}
}

func (s *Store) warn(w Warning) {
	attrs := []any{"kind", string(w.Kind), "key", w.Key, "op", w.Op}
	switch w.Kind {
	case WarnUnknownKey:
		attrs = append([]any{"code", "E101"}, attrs...)
	case WarnReflect:
		attrs = append([]any{"code", "E106"}, attrs...)
	}
	if w.Err != nil {
		attrs = append(attrs, "error", w.Err)
	}
	s.logger.Warn("property store warning", attrs...)
	if s.sink != nil {
		s.sink.Warning(w)
	}
}

// SortedUpdates turns a map of literal values into key-ordered updates.
func SortedUpdates(values map[string]any) []KeyValue {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyValue{Key: k, Value: Literal(values[k])})
	}
	return out
}
