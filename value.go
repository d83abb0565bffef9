// FILE: lixenwraith/fixture/value.go
package fixture

// Kind identifies which case of the Value variant a field holds.
type Kind int

const (
	// KindLiteral is a plain, already final value
	KindLiteral Kind = iota
	// KindLazy is a function evaluated during the function pass
	KindLazy
	// KindDeferred is a weighted computation evaluated during the deferred pass
	KindDeferred
	// KindNested is a nested record or a sequence of values
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindLazy:
		return "lazy"
	case KindDeferred:
		return "deferred"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Value is a field value of a Record. The set of implementations is closed:
// Literal, Lazy, *Deferred and Nested.
type Value interface {
	Kind() Kind
	sealed()
}

// Literal holds a final value. Values stored in a Literal are treated as immutable.
type Literal struct {
	V any
}

func (Literal) Kind() Kind { return KindLiteral }
func (Literal) sealed()    {}

// Lazy is evaluated once per build with the enclosing record as scope.
// Its result is normalised with ValueOf and resolved again, so a Lazy may
// return another Lazy, a nested map, a slice or a *Deferred.
type Lazy func(scope Scope) any

func (Lazy) Kind() Kind { return KindLazy }
func (Lazy) sealed()    {}

// Nested holds either a nested record or a sequence of values.
type Nested struct {
	record *Record
	list   []Value
}

func (Nested) Kind() Kind { return KindNested }
func (Nested) sealed()    {}

// NestedRecord wraps a record as a field value.
func NestedRecord(r *Record) Nested {
	if r == nil {
		r = NewRecord(nil)
	}
	return Nested{record: r}
}

// NestedList wraps a sequence of values. Elements are normalised with ValueOf.
func NestedList(elems ...any) Nested {
	list := make([]Value, len(elems))
	for i, e := range elems {
		list[i] = ValueOf(e)
	}
	return Nested{list: list}
}

// Record returns the nested record, if this value holds one.
func (n Nested) Record() (*Record, bool) {
	return n.record, n.record != nil
}

// List returns the sequence, if this value holds one.
func (n Nested) List() ([]Value, bool) {
	if n.record != nil {
		return nil, false
	}
	return n.list, true
}

// ValueOf normalises a raw Go value into a Value.
//
//	Value                      kept as is
//	*Record, map[string]any    nested record (maps become loose records)
//	[]any, []Value             nested sequence
//	func(Scope) any            Lazy
//	func() any                 Lazy ignoring its scope
//	anything else              Literal
//
// Typed slices and maps other than map[string]any are literals.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Literal{}
	case *Deferred:
		if x == nil {
			return Literal{}
		}
		return x
	case Value:
		return x
	case *Record:
		if x == nil {
			return Literal{}
		}
		return Nested{record: x}
	case map[string]any:
		return Nested{record: NewRecord(x)}
	case Overrides:
		return Nested{record: NewRecord(x)}
	case []any:
		return NestedList(x...)
	case []Value:
		list := make([]Value, len(x))
		for i, e := range x {
			list[i] = ValueOf(e)
		}
		return Nested{list: list}
	case func(Scope) any:
		return Lazy(x)
	case func() any:
		return Lazy(func(Scope) any { return x() })
	default:
		return Literal{V: v}
	}
}

// plain converts a value into plain Go data. Pending lazy and deferred values
// have no plain form and are reported as absent.
func plain(v Value) (any, bool) {
	switch x := v.(type) {
	case Literal:
		return x.V, true
	case Nested:
		if x.record != nil {
			return x.record.Map(), true
		}
		out := make([]any, 0, len(x.list))
		for _, e := range x.list {
			if p, ok := plain(e); ok {
				out = append(out, p)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// detach returns a copy of v that shares no mutable state with the original.
func detach(v Value) Value {
	n, ok := v.(Nested)
	if !ok {
		return v
	}
	if n.record != nil {
		return Nested{record: n.record.Clone()}
	}
	list := make([]Value, len(n.list))
	for i, e := range n.list {
		list[i] = detach(e)
	}
	return Nested{list: list}
}

// pending reports whether v still needs evaluation.
func pending(v Value) bool {
	switch v.(type) {
	case Lazy, *Deferred:
		return true
	}
	return false
}
