// FILE: lixenwraith/fixture/resolver.go
package fixture

import (
	"fmt"
	"log/slog"
)

// DefaultMaxPasses bounds the deferred scans and chained lazy evaluations of a single record
const DefaultMaxPasses = 1024

// ResolverOptions configures a Resolver
type ResolverOptions struct {
	// MaxPasses bounds deferred scans per record and chained lazy evaluations per field.
	// Zero means DefaultMaxPasses.
	MaxPasses int

	// StrictScope turns any read of a still pending field through a Scope into a build error.
	// Without it, pending fields are simply not visible.
	StrictScope bool

	// MergeMode selects how overrides combine with template values
	MergeMode MergeMode

	// Logger receives debug events for resolution passes. Nil discards them.
	Logger *slog.Logger
}

// DefaultResolverOptions returns the standard resolver options
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		MaxPasses: DefaultMaxPasses,
		MergeMode: MergeReplace,
	}
}

// Resolver merges overrides into a template and evaluates every lazy and
// deferred field. A Resolver holds no per-build state and is safe for
// concurrent use.
type Resolver struct {
	maxPasses   int
	strictScope bool
	mergeMode   MergeMode
	logger      *slog.Logger
}

// NewResolver creates a resolver with the given options
func NewResolver(opts ResolverOptions) *Resolver {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		maxPasses:   opts.MaxPasses,
		strictScope: opts.StrictScope,
		mergeMode:   opts.MergeMode,
		logger:      logger,
	}
}

// Resolve merges overrides into template and runs the function pass and the
// weighted deferred pass. The template is not modified. On error no record is returned.
func (rv *Resolver) Resolve(template *Record, overrides Overrides) (*Record, error) {
	rec, err := merge(template, overrides, rv.mergeMode)
	if err != nil {
		return nil, err
	}

	if err := rv.evaluate(rec, ""); err != nil {
		return nil, err
	}
	if _, err := rv.settle(rec, ""); err != nil {
		return nil, err
	}
	if err := verifyResolved(rec, ""); err != nil {
		return nil, err
	}

	return rec, nil
}

// evaluate runs the function pass over a record, depth first
func (rv *Resolver) evaluate(rec *Record, path string) error {
	for _, key := range rec.Keys() {
		v, err := rv.evaluateValue(rec.fields[key], rec, path, key)
		if err != nil {
			return err
		}
		rec.fields[key] = v
	}
	return nil
}

// evaluateValue calls lazy functions until a non-lazy value remains, then
// recurses into nested records (with themselves as scope) and sequences
// (with the enclosing record as scope). Deferred values are left untouched.
func (rv *Resolver) evaluateValue(v Value, scopeRec *Record, scopePath, field string) (Value, error) {
	fieldPath := joinPath(scopePath, field)

	for calls := 0; ; calls++ {
		fn, ok := v.(Lazy)
		if !ok {
			break
		}
		if calls >= rv.maxPasses {
			return nil, fmt.Errorf("%w: field %q still lazy after %d evaluations", ErrPassLimit, fieldPath, calls)
		}
		if fn == nil {
			v = Literal{}
			break
		}
		out, err := rv.call(fn, scopeRec, scopePath)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fieldPath, err)
		}
		v = detach(ValueOf(out))
	}

	n, ok := v.(Nested)
	if !ok {
		return v, nil
	}

	if n.record != nil {
		if err := rv.evaluate(n.record, fieldPath); err != nil {
			return nil, err
		}
		return n, nil
	}

	for i, elem := range n.list {
		resolved, err := rv.evaluateValue(elem, scopeRec, scopePath, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		n.list[i] = resolved
	}
	return n, nil
}

// call invokes a lazy or deferred function with a fresh scope and surfaces
// any error recorded through that scope
func (rv *Resolver) call(fn func(Scope) any, rec *Record, path string) (any, error) {
	scope := newScope(rec, path, rv.strictScope)
	out := fn(scope)
	if err := scope.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// settle runs the weighted deferred pass over a record and returns how many
// scans resolved at least one attribute. Nested records are settled first,
// each with its own weight cursor.
//
// A scan resolves every deferred attribute whose weight is at most the cursor,
// in sorted field order; afterwards the cursor moves to the smallest weight
// still pending. A compute result that is itself deferred is not evaluated in
// the same scan; later scans pick it up like any other pending attribute.
func (rv *Resolver) settle(rec *Record, path string) (int, error) {
	keys := rec.Keys()

	for _, key := range keys {
		if err := rv.settleNested(rec.fields[key], joinPath(path, key)); err != nil {
			return 0, err
		}
	}

	cursor := 0
	passes := 0

	for scans := 0; ; scans++ {
		if scans >= rv.maxPasses {
			return passes, fmt.Errorf("%w: record %q after %d scans", ErrPassLimit, displayPath(path), scans)
		}

		resolved := 0
		remaining := false
		nextWeight := 0

		track := func(w int) {
			if !remaining || w < nextWeight {
				nextWeight = w
			}
			remaining = true
		}

		for _, key := range keys {
			d, ok := rec.fields[key].(*Deferred)
			if !ok {
				continue
			}
			if d.weight > cursor {
				track(d.weight)
				continue
			}

			v, err := rv.computeDeferred(d, rec, path, key)
			if err != nil {
				return passes, err
			}
			rec.fields[key] = v
			resolved++

			if again, ok := v.(*Deferred); ok {
				track(again.weight)
			}
		}

		if resolved > 0 {
			passes++
			rv.logger.Debug("deferred pass",
				"record", displayPath(path),
				"pass", passes,
				"weight", cursor,
				"resolved", resolved)
		}

		if !remaining {
			return passes, nil
		}
		if nextWeight > cursor {
			cursor = nextWeight
		}
	}
}

// computeDeferred evaluates one due attribute and fully resolves its result
func (rv *Resolver) computeDeferred(d *Deferred, rec *Record, path, key string) (Value, error) {
	fieldPath := joinPath(path, key)

	out, err := rv.call(d.compute, rec, path)
	if err != nil {
		return nil, fmt.Errorf("deferred field %q: %w", fieldPath, err)
	}

	v, err := rv.evaluateValue(detach(ValueOf(out)), rec, path, key)
	if err != nil {
		return nil, err
	}
	if err := rv.settleNested(v, fieldPath); err != nil {
		return nil, err
	}
	return v, nil
}

// settleNested runs independent deferred passes for nested records,
// including records held inside sequences
func (rv *Resolver) settleNested(v Value, path string) error {
	n, ok := v.(Nested)
	if !ok {
		return nil
	}
	if n.record != nil {
		_, err := rv.settle(n.record, path)
		return err
	}
	for i, elem := range n.list {
		if err := rv.settleNested(elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// verifyResolved reports the first field that still holds a lazy or deferred value
func verifyResolved(rec *Record, path string) error {
	for _, key := range rec.Keys() {
		if err := verifyValue(rec.fields[key], joinPath(path, key)); err != nil {
			return err
		}
	}
	return nil
}

func verifyValue(v Value, path string) error {
	switch x := v.(type) {
	case Lazy, *Deferred:
		return fmt.Errorf("%w: %q is still %s", ErrUnresolved, path, v.Kind())
	case Nested:
		if x.record != nil {
			return verifyResolved(x.record, path)
		}
		for i, elem := range x.list {
			if err := verifyValue(elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}
