// FILE: lixenwraith/fixture/factory_test.go
package fixture

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUserFactory returns a factory with a "user" template that uses sequences and deferred fields
func newUserFactory(t *testing.T, opts ...func(*Builder)) *Factory {
	t.Helper()

	seq := NewSequencer()
	b := NewBuilder().
		WithSequencer(seq).
		Define("user", func() (*Record, error) {
			return NewRecord(map[string]any{
				"id":    seq.Sequence("user.id", nil),
				"name":  "Jane",
				"admin": false,
				"email": Defer(func(s Scope) any {
					return fmt.Sprintf("%s%d@example.com", s.String("name"), s.Int64("id"))
				}),
				"address": map[string]any{
					"city": "Oslo",
				},
			}), nil
		})
	for _, opt := range opts {
		opt(b)
	}

	f, err := b.Build()
	require.NoError(t, err)
	return f
}

// TestFactoryBuild tests single builds
func TestFactoryBuild(t *testing.T) {
	t.Run("ResolvesTemplate", func(t *testing.T) {
		f := newUserFactory(t)
		rec, err := f.Build("user", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"id":      int64(0),
			"name":    "Jane",
			"admin":   false,
			"email":   "Jane0@example.com",
			"address": map[string]any{"city": "Oslo"},
		}, rec.Map())
	})

	t.Run("AppliesOverrides", func(t *testing.T) {
		f := newUserFactory(t)
		rec, err := f.Build("user", Overrides{"name": "Ola", "address.city": "Bergen"})
		require.NoError(t, err)
		email, _ := rec.Get("email")
		assert.Equal(t, "Ola0@example.com", email)
		address, _ := rec.Get("address")
		assert.Equal(t, map[string]any{"city": "Bergen"}, address)
	})

	t.Run("UndefinedFactory", func(t *testing.T) {
		f := newUserFactory(t)
		rec, err := f.Build("does_not_exist", nil)
		require.Error(t, err)
		assert.Nil(t, rec)
		assert.True(t, errors.Is(err, ErrUndefinedFactory))

		var undefined *UndefinedFactoryError
		require.True(t, errors.As(err, &undefined))
		assert.Equal(t, "does_not_exist", undefined.Name)
	})

	t.Run("UndefinedFactoryDoesNotConsumeSequence", func(t *testing.T) {
		f := newUserFactory(t)
		_, err := f.Build("missing", nil)
		require.Error(t, err)
		rec, err := f.Build("user", nil)
		require.NoError(t, err)
		id, _ := rec.Get("id")
		assert.Equal(t, int64(0), id)
	})

	t.Run("ResolutionErrorNamesFactory", func(t *testing.T) {
		f, err := NewBuilder().
			Define("broken", func() (*Record, error) {
				return NewRecord(map[string]any{
					"x": func(s Scope) any { return s.String("nope") },
				}), nil
			}).
			Build()
		require.NoError(t, err)

		_, err = f.Build("broken", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `build "broken"`)
		assert.True(t, errors.Is(err, ErrFieldNotFound))
	})

	t.Run("ProducerError", func(t *testing.T) {
		boom := errors.New("boom")
		f, err := NewBuilder().
			Define("bad", func() (*Record, error) { return nil, boom }).
			Build()
		require.NoError(t, err)

		_, err = f.Build("bad", nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		f := newUserFactory(t)
		assert.Panics(t, func() { f.MustBuild("nope", nil) })
		assert.NotPanics(t, func() { f.MustBuild("user", nil) })
	})

	t.Run("Accessors", func(t *testing.T) {
		f := newUserFactory(t)
		assert.Equal(t, []string{"user"}, f.Registry().Names(""))
		_, err := f.Build("user", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.Sequencer().Next("user.id"))
	})
}

// TestFactoryBuildList tests list and pair builds
func TestFactoryBuildList(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		f := newUserFactory(t)
		list, err := f.BuildList(0, "user", nil)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("Negative", func(t *testing.T) {
		f := newUserFactory(t)
		_, err := f.BuildList(-1, "user", nil)
		assert.Error(t, err)
	})

	t.Run("IndependentRecords", func(t *testing.T) {
		f := newUserFactory(t)
		list, err := f.BuildList(3, "user", Overrides{})
		require.NoError(t, err)
		require.Len(t, list, 3)

		emails := make(map[any]bool)
		for i, rec := range list {
			id, _ := rec.Get("id")
			assert.Equal(t, int64(i), id)
			email, _ := rec.Get("email")
			emails[email] = true
		}
		assert.Len(t, emails, 3)
	})

	t.Run("OverridesAppliedToEveryItem", func(t *testing.T) {
		f := newUserFactory(t)
		overrides := Overrides{"address": map[string]any{"city": "Rome"}}
		list, err := f.BuildList(2, "user", overrides)
		require.NoError(t, err)

		for _, rec := range list {
			address, _ := rec.Get("address")
			assert.Equal(t, map[string]any{"city": "Rome"}, address)
		}
		assert.Equal(t, Overrides{"address": map[string]any{"city": "Rome"}}, overrides)
	})

	t.Run("LazyOverrideEvaluatedPerItem", func(t *testing.T) {
		f := newUserFactory(t)
		seq := NewSequencer()
		list, err := f.BuildList(3, "user", Overrides{"name": seq.Sequence("name", func(n int64) any {
			return fmt.Sprintf("n%d", n)
		})})
		require.NoError(t, err)

		var names []any
		for _, rec := range list {
			name, _ := rec.Get("name")
			names = append(names, name)
		}
		assert.Equal(t, []any{"n0", "n1", "n2"}, names)
	})

	t.Run("UndefinedFactory", func(t *testing.T) {
		f := newUserFactory(t)
		list, err := f.BuildList(2, "ghost", nil)
		assert.Nil(t, list)
		assert.ErrorIs(t, err, ErrUndefinedFactory)
	})

	t.Run("Pair", func(t *testing.T) {
		f := newUserFactory(t)
		pair, err := f.BuildPair("user", nil)
		require.NoError(t, err)
		require.Len(t, pair, 2)
		a, _ := pair[0].Get("id")
		b, _ := pair[1].Get("id")
		assert.NotEqual(t, a, b)
	})
}

// TestFactoryValidators tests validator execution
func TestFactoryValidators(t *testing.T) {
	var calls []string
	f := newUserFactory(t, func(b *Builder) {
		b.WithValidator(func(name string, r *Record) error {
			calls = append(calls, "first:"+name)
			return nil
		})
		b.WithValidator(func(name string, r *Record) error {
			calls = append(calls, "second:"+name)
			if admin, _ := r.Get("admin"); admin == true {
				return errors.New("admins not allowed")
			}
			return nil
		})
		b.WithValidator(nil)
	})

	_, err := f.Build("user", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:user", "second:user"}, calls)

	rec, err := f.Build("user", Overrides{"admin": true})
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, err.Error(), "fixture validation failed")
	assert.Contains(t, err.Error(), "admins not allowed")
}

// TestFactoryBuildMapAndInto tests plain and typed outputs
func TestFactoryBuildMapAndInto(t *testing.T) {
	type Address struct {
		City string `toml:"city"`
	}
	type User struct {
		ID      int64   `toml:"id"`
		Name    string  `toml:"name"`
		Email   string  `toml:"email"`
		Admin   bool    `toml:"admin"`
		Address Address `toml:"address"`
	}

	f := newUserFactory(t)

	m, err := f.BuildMap("user", Overrides{"name": "Kari"})
	require.NoError(t, err)
	assert.Equal(t, "Kari", m["name"])

	var u User
	require.NoError(t, f.BuildInto("user", Overrides{"admin": true}, &u))
	assert.Equal(t, User{
		ID:      1,
		Name:    "Jane",
		Email:   "Jane1@example.com",
		Admin:   true,
		Address: Address{City: "Oslo"},
	}, u)

	err = f.BuildInto("ghost", nil, &u)
	assert.ErrorIs(t, err, ErrUndefinedFactory)
}

// TestFactoryConcurrentBuilds tests concurrent builds sharing one sequencer
func TestFactoryConcurrentBuilds(t *testing.T) {
	f := newUserFactory(t)

	const goroutines = 8
	const perGoroutine = 50

	var mu sync.Mutex
	ids := make(map[int64]bool)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				rec, err := f.Build("user", nil)
				if !assert.NoError(t, err) {
					return
				}
				id, _ := rec.Get("id")
				mu.Lock()
				ids[id.(int64)] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, goroutines*perGoroutine)
}
