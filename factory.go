// FILE: lixenwraith/fixture/factory.go
package fixture

import (
	"fmt"
	"log/slog"
)

// ValidatorFunc checks a resolved record before it is handed to the caller.
// It receives the factory name and the record, and returns an error to reject it.
type ValidatorFunc func(name string, r *Record) error

// Factory builds resolved records from registered templates.
// It is safe for concurrent use once built.
type Factory struct {
	registry   *Registry
	resolver   *Resolver
	sequencer  *Sequencer
	validators []ValidatorFunc
	tagName    string
	logger     *slog.Logger
}

// Registry returns the registry the factory builds from
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Sequencer returns the sequencer shared by this factory's templates
func (f *Factory) Sequencer() *Sequencer {
	return f.sequencer
}

// Build resolves the template registered under name with overrides applied.
// On error no record is returned.
func (f *Factory) Build(name string, overrides Overrides) (*Record, error) {
	template, err := f.registry.Template(name)
	if err != nil {
		return nil, err
	}

	rec, err := f.resolver.Resolve(template, overrides)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", name, err)
	}

	for _, validator := range f.validators {
		if err := validator(name, rec); err != nil {
			return nil, fmt.Errorf("fixture validation failed for %q: %w", name, err)
		}
	}

	f.logger.Debug("fixture built",
		"factory", name,
		"overrides", len(overrides),
		"fields", rec.Len())
	return rec, nil
}

// MustBuild is like Build but panics on error
func (f *Factory) MustBuild(name string, overrides Overrides) *Record {
	rec, err := f.Build(name, overrides)
	if err != nil {
		panic(fmt.Sprintf("fixture build failed: %v", err))
	}
	return rec
}

// BuildList builds n records, each from an independent copy of overrides.
// n == 0 returns an empty list.
func (f *Factory) BuildList(n int, name string, overrides Overrides) ([]*Record, error) {
	if n < 0 {
		return nil, fmt.Errorf("build list %q: negative count %d", name, n)
	}

	records := make([]*Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := f.Build(name, overrides.Clone())
		if err != nil {
			return nil, fmt.Errorf("build list %q item %d: %w", name, i, err)
		}
		records = append(records, rec)
	}

	f.logger.Debug("fixture list built", "factory", name, "count", n)
	return records, nil
}

// BuildPair builds two independent records
func (f *Factory) BuildPair(name string, overrides Overrides) ([]*Record, error) {
	return f.BuildList(2, name, overrides)
}

// BuildMap builds a record and returns its plain form
func (f *Factory) BuildMap(name string, overrides Overrides) (map[string]any, error) {
	rec, err := f.Build(name, overrides)
	if err != nil {
		return nil, err
	}
	return rec.Map(), nil
}

// BuildInto builds a record and decodes it into target (see Record.Decode)
func (f *Factory) BuildInto(name string, overrides Overrides, target any) error {
	rec, err := f.Build(name, overrides)
	if err != nil {
		return err
	}
	if err := rec.Decode(target, f.tagName); err != nil {
		return fmt.Errorf("build %q: %w", name, err)
	}
	return nil
}
