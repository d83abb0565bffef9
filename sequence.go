// FILE: lixenwraith/fixture/sequence.go
package fixture

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequencer hands out a strictly increasing integer per sequence name,
// starting at 0. It is safe for concurrent use: every caller receives a
// distinct number, though which caller gets which number is unspecified.
//
// A Sequencer is meant to be created once at startup and shared by every
// factory that needs unique values. There is no reset.
type Sequencer struct {
	counters sync.Map // name -> *atomic.Int64
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns the next number of the named sequence: 0, 1, 2, ...
func (s *Sequencer) Next(name string) int64 {
	if s == nil {
		panic("fixture: sequencer used before initialization")
	}

	counter, ok := s.counters.Load(name)
	if !ok {
		counter, _ = s.counters.LoadOrStore(name, new(atomic.Int64))
	}
	return counter.(*atomic.Int64).Add(1) - 1
}

// Names returns the sequences issued so far, sorted
func (s *Sequencer) Names() []string {
	var names []string
	s.counters.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Sequence returns a lazy field that draws the next number of the named
// sequence at resolution time, so every build gets a fresh value.
// A nil format yields the raw int64.
func (s *Sequencer) Sequence(name string, format func(n int64) any) Lazy {
	return func(Scope) any {
		n := s.Next(name)
		if format == nil {
			return n
		}
		return format(n)
	}
}

// NextFormat returns format applied to the next number of the named sequence
func NextFormat[T any](s *Sequencer, name string, format func(n int64) T) T {
	return format(s.Next(name))
}

// Cycle returns the elements of values in turn, one per call, wrapping around.
// It panics if values is empty.
func Cycle[T any](s *Sequencer, name string, values []T) T {
	if len(values) == 0 {
		panic("fixture: cycle over empty list")
	}
	return values[s.Next(name)%int64(len(values))]
}

// UUID returns a lazy field producing a random UUID string per build
func UUID() Lazy {
	return func(Scope) any {
		return uuid.NewString()
	}
}
