// FILE: lixenwraith/fixture/registry.go
package fixture

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Producer builds a fresh template record. It is called once per build.
type Producer func() (*Record, error)

// Registry maps factory names to template producers. Names are dot-separated
// segments of letters, digits, '_' and '-' (e.g. "user", "user.admin").
// Registry is safe for concurrent use.
type Registry struct {
	producers map[string]Producer
	mutex     sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		producers: make(map[string]Producer),
	}
}

// Define registers a producer under name. Defining the same name twice is an error.
func (r *Registry) Define(name string, producer Producer) error {
	if !isValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFactoryName, name)
	}
	if producer == nil {
		return fmt.Errorf("factory %q: nil producer", name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.producers[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, name)
	}
	r.producers[name] = producer
	return nil
}

// DefineFunc registers a producer that cannot fail.
func (r *Registry) DefineFunc(name string, fn func() *Record) error {
	if fn == nil {
		return fmt.Errorf("factory %q: nil producer", name)
	}
	return r.Define(name, func() (*Record, error) {
		return fn(), nil
	})
}

// DefineRecord registers a fixed template. Every build receives its own copy.
func (r *Registry) DefineRecord(name string, template *Record) error {
	if template == nil {
		return fmt.Errorf("factory %q: nil template", name)
	}
	snapshot := template.Clone()
	return r.Define(name, func() (*Record, error) {
		return snapshot.Clone(), nil
	})
}

// DefineStruct registers a typed template converted with FromStruct.
// The struct is converted once at definition time to surface errors early.
func (r *Registry) DefineStruct(name string, template any, tagName string) error {
	rec, err := FromStruct(template, tagName)
	if err != nil {
		return fmt.Errorf("factory %q: %w", name, err)
	}
	return r.DefineRecord(name, rec)
}

// DefineDocument registers a template parsed from a TOML, YAML or JSON document.
// format is "toml", "yaml", "json" or "auto".
func (r *Registry) DefineDocument(name string, data []byte, format string) error {
	rec, err := ParseDocument(data, format)
	if err != nil {
		return fmt.Errorf("factory %q: %w", name, err)
	}
	return r.DefineRecord(name, rec)
}

// Undefine removes a factory and every factory nested below it ("user" also removes "user.admin").
func (r *Registry) Undefine(name string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prefix := name + "."
	found := false
	for existing := range r.producers {
		if existing == name || strings.HasPrefix(existing, prefix) {
			delete(r.producers, existing)
			found = true
		}
	}

	if !found {
		return &UndefinedFactoryError{Name: name}
	}
	return nil
}

// Lookup returns the producer registered under name
func (r *Registry) Lookup(name string) (Producer, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.producers[name]
	return p, ok
}

// Names returns the sorted names that start with prefix
func (r *Registry) Names(prefix string) []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.producers))
	for name := range r.producers {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Template calls the producer registered under name.
// Unknown names fail with *UndefinedFactoryError.
func (r *Registry) Template(name string) (*Record, error) {
	producer, ok := r.Lookup(name)
	if !ok {
		return nil, &UndefinedFactoryError{Name: name}
	}

	rec, err := producer()
	if err != nil {
		return nil, fmt.Errorf("factory %q: %w", name, err)
	}
	if rec == nil {
		rec = NewRecord(nil)
	}
	return rec, nil
}
