// FILE: lixenwraith/fixture/record.go
package fixture

import (
	"fmt"
	"sort"
)

// Record maps field names to values. A strict record has a fixed field set,
// mirroring a typed structure; a loose record accepts any field.
type Record struct {
	fields map[string]Value
	strict bool
}

// NewRecord creates a loose record from raw field values.
func NewRecord(fields map[string]any) *Record {
	r := &Record{fields: make(map[string]Value, len(fields))}
	for name, v := range fields {
		r.fields[name] = ValueOf(v)
	}
	return r
}

// StrictRecord creates a record whose field set is fixed to the given keys.
func StrictRecord(fields map[string]any) *Record {
	r := NewRecord(fields)
	r.strict = true
	return r
}

// Strict reports whether the record rejects unknown fields.
func (r *Record) Strict() bool {
	return r.strict
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the record declares the field.
func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Value returns the raw Value stored for a field.
func (r *Record) Value(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Get returns the plain form of a field. Nested records come back as
// map[string]any and sequences as []any. Fields still pending evaluation
// are reported as absent.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	return plain(v)
}

// Set stores a field value. Strict records reject fields they do not declare.
func (r *Record) Set(name string, value any) error {
	if r.strict {
		if _, ok := r.fields[name]; !ok {
			return &UnknownFieldError{Field: name}
		}
	}
	r.fields[name] = ValueOf(value)
	return nil
}

// Clone returns a deep copy. Literals and functions are shared, nested
// records and sequences are copied.
func (r *Record) Clone() *Record {
	clone := &Record{
		fields: make(map[string]Value, len(r.fields)),
		strict: r.strict,
	}
	for name, v := range r.fields {
		clone.fields[name] = detach(v)
	}
	return clone
}

// Map converts the record into plain nested maps and slices.
// Fields that are still pending are omitted.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for name, v := range r.fields {
		if p, ok := plain(v); ok {
			out[name] = p
		}
	}
	return out
}

// Flatten returns the record as dot-notation paths to plain values.
func (r *Record) Flatten() map[string]any {
	return flattenMap(r.Map(), "")
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return fmt.Sprintf("%v", r.Map())
}
