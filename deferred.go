// FILE: lixenwraith/fixture/deferred.go
package fixture

import (
	"fmt"
	"math"
	"reflect"
)

// Deferred marks a field to be computed after every sibling with a lower
// weight has its final value. Deferred values are immutable once created.
type Deferred struct {
	weight  int
	compute func(Scope) any
}

func (*Deferred) Kind() Kind { return KindDeferred }
func (*Deferred) sealed()    {}

// Weight returns the pass priority. Lower weights resolve first.
func (d *Deferred) Weight() int {
	return d.weight
}

// Defer creates a deferred attribute with weight 0.
func Defer(compute func(Scope) any) *Deferred {
	return DeferWeighted(0, compute)
}

// DeferWeighted creates a deferred attribute with the given weight.
// It panics if compute is nil.
func DeferWeighted(weight int, compute func(Scope) any) *Deferred {
	if compute == nil {
		panic(fmt.Sprintf("fixture: %v: nil compute function", ErrInvalidDeferred))
	}
	return &Deferred{weight: weight, compute: compute}
}

var scopeType = reflect.TypeOf(Scope{})

// NewDeferred validates a loosely typed weight and compute function.
// weight may be nil (0) or any integer, or a float with an integral value.
// compute must be a function taking exactly one Scope and returning exactly one value.
func NewDeferred(weight any, compute any) (*Deferred, error) {
	w, err := deferredWeight(weight)
	if err != nil {
		return nil, err
	}

	switch fn := compute.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil compute function", ErrInvalidDeferred)
	case func(Scope) any:
		if fn == nil {
			return nil, fmt.Errorf("%w: nil compute function", ErrInvalidDeferred)
		}
		return &Deferred{weight: w, compute: fn}, nil
	case Lazy:
		if fn == nil {
			return nil, fmt.Errorf("%w: nil compute function", ErrInvalidDeferred)
		}
		return &Deferred{weight: w, compute: fn}, nil
	}

	fv := reflect.ValueOf(compute)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: compute must be a function, got %T", ErrInvalidDeferred, compute)
	}
	if fv.IsNil() {
		return nil, fmt.Errorf("%w: nil compute function", ErrInvalidDeferred)
	}
	if ft.IsVariadic() || ft.NumIn() != 1 {
		return nil, fmt.Errorf("%w: compute must take exactly one argument, got %d", ErrInvalidDeferred, ft.NumIn())
	}
	if !scopeType.AssignableTo(ft.In(0)) {
		return nil, fmt.Errorf("%w: compute argument must accept fixture.Scope, got %s", ErrInvalidDeferred, ft.In(0))
	}
	if ft.NumOut() != 1 {
		return nil, fmt.Errorf("%w: compute must return exactly one value, got %d", ErrInvalidDeferred, ft.NumOut())
	}

	return &Deferred{
		weight: w,
		compute: func(s Scope) any {
			return fv.Call([]reflect.Value{reflect.ValueOf(s)})[0].Interface()
		},
	}, nil
}

// MustDeferred is like NewDeferred but panics on error
func MustDeferred(weight any, compute any) *Deferred {
	d, err := NewDeferred(weight, compute)
	if err != nil {
		panic(fmt.Sprintf("fixture: %v", err))
	}
	return d
}

// deferredWeight converts an integer-like weight into int
func deferredWeight(weight any) (int, error) {
	if weight == nil {
		return 0, nil
	}

	v := reflect.ValueOf(weight)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, fmt.Errorf("%w: weight %d out of range", ErrInvalidDeferred, i)
		}
		return int(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt {
			return 0, fmt.Errorf("%w: weight %d out of range", ErrInvalidDeferred, u)
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt || f > math.MaxInt {
			return 0, fmt.Errorf("%w: weight %v is not an integer", ErrInvalidDeferred, f)
		}
		return int(f), nil
	}

	return 0, fmt.Errorf("%w: weight must be numeric, got %T", ErrInvalidDeferred, weight)
}
