package omtsf

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Extra is an ordered mapping from wire keys not matched by any known
// field to their raw JSON-equivalent value. It preserves unknown fields
// across a decode-encode round trip. Iteration and (re-)serialization
// order is lexicographic by key, which is deterministic across runs and
// platforms, unlike native Go map iteration.
type Extra struct {
	fields map[string]json.RawMessage
}

// NewExtra returns an empty Extra map.
func NewExtra() *Extra {
	return &Extra{fields: make(map[string]json.RawMessage)}
}

// Set stores a raw JSON value under key.
func (e *Extra) Set(key string, value json.RawMessage) {
	if e.fields == nil {
		e.fields = make(map[string]json.RawMessage)
	}
	e.fields[key] = value
}

// SetValue marshals v and stores it under key.
func (e *Extra) SetValue(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Set(key, data)
	return nil
}

// Get returns the raw value stored under key, if present.
func (e *Extra) Get(key string) (json.RawMessage, bool) {
	if e == nil || e.fields == nil {
		return nil, false
	}
	v, ok := e.fields[key]
	return v, ok
}

// GetValue unmarshals the value stored under key into v.
func (e *Extra) GetValue(key string, v any) (bool, error) {
	raw, ok := e.Get(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Delete removes key from the map.
func (e *Extra) Delete(key string) {
	if e.fields != nil {
		delete(e.fields, key)
	}
}

// Len reports the number of stored keys.
func (e *Extra) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// Keys returns the stored keys in sorted order.
func (e *Extra) Keys() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep-enough copy (RawMessage slices are not mutated
// in place by this package, so a shallow key copy suffices).
func (e *Extra) Clone() *Extra {
	if e == nil {
		return NewExtra()
	}
	out := NewExtra()
	for k, v := range e.fields {
		out.fields[k] = v
	}
	return out
}

// Equal reports whether e and other hold the same keys mapped to
// byte-identical (compacted) JSON values.
func (e *Extra) Equal(other *Extra) bool {
	if e.Len() != other.Len() {
		return false
	}
	for _, k := range e.Keys() {
		a, _ := e.Get(k)
		b, ok := other.Get(k)
		if !ok {
			return false
		}
		if !jsonEqual(a, b) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b json.RawMessage) bool {
	ca, errA := compactJSON(a)
	cb, errB := compactJSON(b)
	if errA != nil || errB != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca, cb)
}

func compactJSON(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeExtra collects every top-level key of obj that is not in
// knownKeys into an Extra map. knownKeys lists the JSON names the caller
// decodes into its own typed fields, so they are excluded from Extra.
func decodeExtra(obj map[string]json.RawMessage, knownKeys map[string]bool) *Extra {
	extra := NewExtra()
	for k, v := range obj {
		if knownKeys[k] {
			continue
		}
		extra.Set(k, v)
	}
	return extra
}

// OptionalDate represents the three-way optional used for fields like
// Identifier.ValidTo: the field may be entirely absent from the wire
// object, present with a JSON null ("no expiry"), or present with a date
// value.
type OptionalDate struct {
	// Present is false when the field was absent from the wire object.
	Present bool
	// Null is true when the field was present with value null (explicit
	// "no expiry"). Only meaningful when Present is true.
	Null bool
	// Value holds the date when Present && !Null.
	Value CalendarDate
}

// Absent is the zero value: field not present on the wire.
func Absent() OptionalDate { return OptionalDate{} }

// NoExpiry constructs the "present but null" state.
func NoExpiry() OptionalDate { return OptionalDate{Present: true, Null: true} }

// On constructs the "present with a date" state.
func On(d CalendarDate) OptionalDate { return OptionalDate{Present: true, Value: d} }

// IsInfinite reports whether this optional represents "no expiry",
// treated as +infinity by temporal-compatibility comparisons.
func (o OptionalDate) IsInfinite() bool { return o.Present && o.Null }

// MarshalJSONField returns the raw JSON to emit for this field, and
// whether the field should be emitted at all (false => omit entirely).
func (o OptionalDate) MarshalJSONField() (json.RawMessage, bool, error) {
	if !o.Present {
		return nil, false, nil
	}
	if o.Null {
		return json.RawMessage("null"), true, nil
	}
	data, err := json.Marshal(o.Value)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// UnmarshalOptionalDate interprets a raw field value (nil meaning the key
// was absent) into an OptionalDate.
func UnmarshalOptionalDate(raw json.RawMessage, present bool) (OptionalDate, error) {
	if !present {
		return Absent(), nil
	}
	if string(raw) == "null" {
		return NoExpiry(), nil
	}
	var d CalendarDate
	if err := json.Unmarshal(raw, &d); err != nil {
		return OptionalDate{}, err
	}
	return On(d), nil
}
