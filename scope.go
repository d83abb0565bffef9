// FILE: lixenwraith/fixture/scope.go
package fixture

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// scopeState collects the first error raised through a Scope during one
// function or compute call.
type scopeState struct {
	strict bool
	err    error
}

func (s *scopeState) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Scope is the read-only view of the record being resolved that is passed
// to Lazy functions and Deferred computations.
//
// Fields that are still lazy or deferred are not visible. The typed accessors
// (String, Int, ...) return the zero value when a field is missing or cannot be
// converted and remember the error; the resolver fails the build with it once
// the function returns.
type Scope struct {
	rec   *Record
	path  string
	state *scopeState
}

func newScope(rec *Record, path string, strict bool) Scope {
	return Scope{rec: rec, path: path, state: &scopeState{strict: strict}}
}

// NewScope returns a standalone scope over a record, for calling functions
// outside a build (for example in tests of factory helpers).
func NewScope(rec *Record) Scope {
	if rec == nil {
		rec = NewRecord(nil)
	}
	return newScope(rec, "", false)
}

// Err returns the first error recorded through this scope.
func (s Scope) Err() error {
	if s.state == nil {
		return nil
	}
	return s.state.err
}

// Has reports whether the field exists and holds a final value.
func (s Scope) Has(name string) bool {
	if s.rec == nil {
		return false
	}
	v, ok := s.rec.fields[name]
	return ok && !pending(v)
}

// Get returns the plain value of a visible field.
func (s Scope) Get(name string) (any, bool) {
	if s.rec == nil {
		return nil, false
	}
	v, ok := s.rec.fields[name]
	if !ok {
		return nil, false
	}
	if pending(v) {
		if s.state != nil && s.state.strict {
			s.state.fail(fmt.Errorf("%w: %q", ErrPendingAccess, joinPath(s.path, name)))
		}
		return nil, false
	}
	return plain(v)
}

// Record returns a scope over a nested record field.
func (s Scope) Record(name string) Scope {
	path := joinPath(s.path, name)
	child := Scope{path: path, state: s.state}
	if s.rec == nil {
		return child
	}
	v, ok := s.rec.fields[name]
	if !ok {
		s.fail(fmt.Errorf("%w: %q", ErrFieldNotFound, path))
		return child
	}
	n, ok := v.(Nested)
	if !ok || n.record == nil {
		if pending(v) {
			s.fail(fmt.Errorf("%w: %q", ErrPendingAccess, path))
		} else {
			s.fail(fmt.Errorf("field %q is not a record (kind %s)", path, v.Kind()))
		}
		return child
	}
	child.rec = n.record
	return child
}

// String returns a field converted to string.
func (s Scope) String(name string) string {
	val, ok := s.lookup(name)
	if !ok {
		return ""
	}
	str, err := toString(val)
	if err != nil {
		s.fail(fmt.Errorf("field %q: %w", joinPath(s.path, name), err))
	}
	return str
}

// Int64 returns a field converted to int64.
func (s Scope) Int64(name string) int64 {
	val, ok := s.lookup(name)
	if !ok {
		return 0
	}
	i, err := toInt64(val)
	if err != nil {
		s.fail(fmt.Errorf("field %q: %w", joinPath(s.path, name), err))
	}
	return i
}

// Int returns a field converted to int.
func (s Scope) Int(name string) int {
	return int(s.Int64(name))
}

// Float64 returns a field converted to float64.
func (s Scope) Float64(name string) float64 {
	val, ok := s.lookup(name)
	if !ok {
		return 0
	}
	f, err := toFloat64(val)
	if err != nil {
		s.fail(fmt.Errorf("field %q: %w", joinPath(s.path, name), err))
	}
	return f
}

// Bool returns a field converted to bool.
func (s Scope) Bool(name string) bool {
	val, ok := s.lookup(name)
	if !ok {
		return false
	}
	b, err := toBool(val)
	if err != nil {
		s.fail(fmt.Errorf("field %q: %w", joinPath(s.path, name), err))
	}
	return b
}

// lookup is Get for the typed accessors: a missing or pending field is an error.
func (s Scope) lookup(name string) (any, bool) {
	path := joinPath(s.path, name)
	if s.rec == nil {
		s.fail(fmt.Errorf("%w: %q", ErrFieldNotFound, path))
		return nil, false
	}
	v, ok := s.rec.fields[name]
	if !ok {
		s.fail(fmt.Errorf("%w: %q", ErrFieldNotFound, path))
		return nil, false
	}
	if pending(v) {
		s.fail(fmt.Errorf("%w: %q", ErrPendingAccess, path))
		return nil, false
	}
	return plain(v)
}

func (s Scope) fail(err error) {
	if s.state != nil {
		s.state.fail(err)
	}
}

var errNilValue = errors.New("value is nil")

// toString converts common types to string
func toString(val any) (string, error) {
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case error:
		return v.Error(), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string", val)
	}
}

// toInt64 converts numeric types, parsable strings and booleans to int64
func toInt64(val any) (int64, error) {
	if val == nil {
		return 0, fmt.Errorf("cannot convert to int64: %w", errNilValue)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		maxInt64 := int64(^uint64(0) >> 1)
		if u > uint64(maxInt64) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d to int64: overflow", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		// Truncate
		return int64(v.Float()), nil
	case reflect.String:
		str := v.String()
		i, err := strconv.ParseInt(str, 0, 64)
		if err == nil {
			return i, nil
		}
		if f, ferr := strconv.ParseFloat(str, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64: %w", str, err)
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64", val)
}

// toBool converts booleans, parsable strings and numbers (0=false) to bool
func toBool(val any) (bool, error) {
	if val == nil {
		return false, fmt.Errorf("cannot convert to bool: %w", errNilValue)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		str := v.String()
		b, err := strconv.ParseBool(str)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool: %w", str, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool", val)
}

// toFloat64 converts numeric types, parsable strings and booleans to float64
func toFloat64(val any) (float64, error) {
	if val == nil {
		return 0, fmt.Errorf("cannot convert to float64: %w", errNilValue)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		str := v.String()
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64: %w", str, err)
		}
		return f, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to float64", val)
}
