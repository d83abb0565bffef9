// FILE: lixenwraith/fixture/merge.go
package fixture

import (
	"fmt"
	"strings"
)

// Overrides holds caller-supplied field values that replace template values.
// Keys containing dots address fields of nested records ("address.city").
type Overrides map[string]any

// Clone returns an independent copy. Nested maps and []any are copied;
// other values are shared.
func (o Overrides) Clone() Overrides {
	if o == nil {
		return nil
	}
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = cloneAny(e)
		}
		return m
	case Overrides:
		return x.Clone()
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = cloneAny(e)
		}
		return s
	case *Record:
		if x == nil {
			return x
		}
		return x.Clone()
	default:
		return v
	}
}

// MergeMode defines how override values combine with template values
type MergeMode int

const (
	// MergeReplace replaces the template value of every overridden key (default)
	MergeReplace MergeMode = iota

	// MergeDeep merges override maps into nested template records key by key
	MergeDeep
)

func (m MergeMode) String() string {
	switch m {
	case MergeReplace:
		return "replace"
	case MergeDeep:
		return "deep"
	default:
		return fmt.Sprintf("MergeMode(%d)", int(m))
	}
}

// ParseMergeMode converts "replace" or "deep" into a MergeMode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return MergeReplace, nil
	case "deep":
		return MergeDeep, nil
	default:
		return MergeReplace, fmt.Errorf("unknown merge mode %q", s)
	}
}

// merge builds a new record from a template and overrides. Neither input is modified.
func merge(template *Record, overrides Overrides, mode MergeMode) (*Record, error) {
	var rec *Record
	if template == nil {
		rec = NewRecord(nil)
	} else {
		rec = template.Clone()
	}

	if len(overrides) == 0 {
		return rec, nil
	}

	// Plain keys first, dotted paths afterwards so they refine what plain keys set
	var dotted []string
	for _, key := range sortedKeys(overrides) {
		if strings.Contains(key, ".") {
			dotted = append(dotted, key)
			continue
		}
		if err := mergeField(rec, key, overrides[key], mode, ""); err != nil {
			return nil, err
		}
	}

	for _, key := range dotted {
		if err := mergePath(rec, key, overrides[key], mode); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// mergeField applies one override to one record level
func mergeField(rec *Record, key string, raw any, mode MergeMode, path string) error {
	current, exists := rec.fields[key]
	if !exists && rec.strict {
		return &UnknownFieldError{Field: key, Path: path}
	}

	if mode == MergeDeep && exists {
		if n, ok := current.(Nested); ok && n.record != nil {
			if sub, ok := fieldMap(raw); ok {
				nestedPath := joinPath(path, key)
				for _, subKey := range sortedKeys(sub) {
					if err := mergeField(n.record, subKey, sub[subKey], mode, nestedPath); err != nil {
						return err
					}
				}
				return nil
			}
		}
	}

	rec.fields[key] = detach(ValueOf(raw))
	return nil
}

// mergePath applies an override addressed by a dot path
func mergePath(rec *Record, key string, raw any, mode MergeMode) error {
	segments := strings.Split(key, ".")
	current := rec
	path := ""

	for _, segment := range segments[:len(segments)-1] {
		if segment == "" {
			return fmt.Errorf("invalid override path %q", key)
		}
		v, exists := current.fields[segment]
		if !exists {
			if current.strict {
				return &UnknownFieldError{Field: segment, Path: path}
			}
			next := NewRecord(nil)
			current.fields[segment] = Nested{record: next}
			current = next
			path = joinPath(path, segment)
			continue
		}
		n, ok := v.(Nested)
		if !ok || n.record == nil {
			return fmt.Errorf("invalid override path %q: field %q is %s, not a record", key, joinPath(path, segment), v.Kind())
		}
		current = n.record
		path = joinPath(path, segment)
	}

	last := segments[len(segments)-1]
	if last == "" {
		return fmt.Errorf("invalid override path %q", key)
	}
	return mergeField(current, last, raw, mode, path)
}

// fieldMap exposes map-shaped override values for deep merging
func fieldMap(raw any) (map[string]any, bool) {
	switch x := raw.(type) {
	case map[string]any:
		return x, true
	case Overrides:
		return map[string]any(x), true
	case *Record:
		if x == nil {
			return nil, false
		}
		m := make(map[string]any, len(x.fields))
		for k, v := range x.fields {
			m[k] = v
		}
		return m, true
	case Nested:
		if x.record == nil {
			return nil, false
		}
		return fieldMap(x.record)
	}
	return nil, false
}
