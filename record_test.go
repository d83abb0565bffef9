// FILE: lixenwraith/fixture/record_test.go
package fixture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValueOf tests normalisation of raw values into the variant
func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		kind Kind
	}{
		{"Nil", nil, KindLiteral},
		{"String", "x", KindLiteral},
		{"Int", 1, KindLiteral},
		{"TypedSlice", []string{"a"}, KindLiteral},
		{"TypedMap", map[string]int{"a": 1}, KindLiteral},
		{"AnyMap", map[string]any{"a": 1}, KindNested},
		{"Overrides", Overrides{"a": 1}, KindNested},
		{"AnySlice", []any{1, 2}, KindNested},
		{"ValueSlice", []Value{Literal{V: 1}}, KindNested},
		{"Record", NewRecord(nil), KindNested},
		{"NilRecord", (*Record)(nil), KindLiteral},
		{"ScopeFunc", func(Scope) any { return 1 }, KindLazy},
		{"NullaryFunc", func() any { return 1 }, KindLazy},
		{"Lazy", Lazy(func(Scope) any { return 1 }), KindLazy},
		{"Deferred", Defer(func(Scope) any { return 1 }), KindDeferred},
		{"NilDeferred", (*Deferred)(nil), KindLiteral},
		{"Literal", Literal{V: 3}, KindLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ValueOf(tt.raw).Kind())
		})
	}
}

// TestRecord tests record accessors
func TestRecord(t *testing.T) {
	t.Run("GetReturnsPlainValues", func(t *testing.T) {
		r := NewRecord(map[string]any{
			"name":    "jo",
			"address": map[string]any{"city": "Oslo"},
			"tags":    []any{"a", "b"},
		})

		name, ok := r.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "jo", name)

		address, ok := r.Get("address")
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"city": "Oslo"}, address)

		tags, ok := r.Get("tags")
		assert.True(t, ok)
		assert.Equal(t, []any{"a", "b"}, tags)

		_, ok = r.Get("missing")
		assert.False(t, ok)
	})

	t.Run("PendingFieldsAreNotPlain", func(t *testing.T) {
		r := NewRecord(map[string]any{
			"lazy":  func(Scope) any { return 1 },
			"later": Defer(func(Scope) any { return 2 }),
			"done":  3,
		})

		_, ok := r.Get("lazy")
		assert.False(t, ok)
		_, ok = r.Get("later")
		assert.False(t, ok)
		assert.True(t, r.Has("lazy"))
		assert.Equal(t, map[string]any{"done": 3}, r.Map())
	})

	t.Run("KeysSorted", func(t *testing.T) {
		r := NewRecord(map[string]any{"c": 1, "a": 2, "b": 3})
		assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
		assert.Equal(t, 3, r.Len())
	})

	t.Run("SetOnLooseRecord", func(t *testing.T) {
		r := NewRecord(nil)
		require.NoError(t, r.Set("new", 1))
		v, _ := r.Get("new")
		assert.Equal(t, 1, v)
	})

	t.Run("SetOnStrictRecord", func(t *testing.T) {
		r := StrictRecord(map[string]any{"name": ""})
		assert.True(t, r.Strict())
		require.NoError(t, r.Set("name", "jo"))

		err := r.Set("age", 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownOverrideField))
		var fieldErr *UnknownFieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, "age", fieldErr.Field)
	})

	t.Run("CloneIsDeep", func(t *testing.T) {
		r := NewRecord(map[string]any{
			"address": map[string]any{"city": "Oslo"},
			"tags":    []any{map[string]any{"k": "v"}},
		})
		clone := r.Clone()

		v, _ := clone.Value("address")
		nested, ok := v.(Nested).Record()
		require.True(t, ok)
		require.NoError(t, nested.Set("city", "Bergen"))

		address, _ := r.Get("address")
		assert.Equal(t, map[string]any{"city": "Oslo"}, address)
		cloned, _ := clone.Get("address")
		assert.Equal(t, map[string]any{"city": "Bergen"}, cloned)
	})

	t.Run("Flatten", func(t *testing.T) {
		r := NewRecord(map[string]any{
			"name":    "jo",
			"address": map[string]any{"city": "Oslo", "geo": map[string]any{"lat": 1.5}},
		})
		assert.Equal(t, map[string]any{
			"name":            "jo",
			"address.city":    "Oslo",
			"address.geo.lat": 1.5,
		}, r.Flatten())
	})

	t.Run("NestedAccessors", func(t *testing.T) {
		n := NestedList(1, "two")
		_, isRecord := n.Record()
		assert.False(t, isRecord)
		list, isList := n.List()
		require.True(t, isList)
		assert.Len(t, list, 2)

		nr := NestedRecord(nil)
		rec, isRecord := nr.Record()
		assert.True(t, isRecord)
		assert.Equal(t, 0, rec.Len())
	})
}

// TestKindString tests kind names
func TestKindString(t *testing.T) {
	assert.Equal(t, "literal", KindLiteral.String())
	assert.Equal(t, "lazy", KindLazy.String())
	assert.Equal(t, "deferred", KindDeferred.String())
	assert.Equal(t, "nested", KindNested.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
