// File: lixenwraith/fixture/builder.go
package fixture

import (
	"errors"
	"fmt"
	"log/slog"
)

// definition is a factory queued on the Builder
type definition struct {
	name     string
	producer Producer
	document []byte
	format   string
}

// Builder provides a fluent interface for building factories
type Builder struct {
	registry   *Registry
	sequencer  *Sequencer
	logger     *slog.Logger
	opts       ResolverOptions
	tagName    string
	defs       []definition
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a new factory builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultResolverOptions(),
		tagName:    DefaultTagName,
		validators: make([]ValidatorFunc, 0),
	}
}

// WithRegistry sets the registry to build from; definitions added on the
// builder are registered into it. Default is a new empty registry.
func (b *Builder) WithRegistry(r *Registry) *Builder {
	if r == nil {
		b.setErr(fmt.Errorf("nil registry"))
		return b
	}
	b.registry = r
	return b
}

// WithSequencer sets the sequencer shared by the factory. Default is a new sequencer.
func (b *Builder) WithSequencer(s *Sequencer) *Builder {
	if s == nil {
		b.setErr(fmt.Errorf("nil sequencer"))
		return b
	}
	b.sequencer = s
	return b
}

// WithLogger sets the structured logger for build and pass events
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMaxPasses bounds deferred scans per record
func (b *Builder) WithMaxPasses(n int) *Builder {
	if n <= 0 {
		b.setErr(fmt.Errorf("max passes must be positive, got %d", n))
		return b
	}
	b.opts.MaxPasses = n
	return b
}

// WithStrictScope makes reads of pending fields fail the build
func (b *Builder) WithStrictScope(strict bool) *Builder {
	b.opts.StrictScope = strict
	return b
}

// WithMergeMode sets how overrides combine with template values
func (b *Builder) WithMergeMode(mode MergeMode) *Builder {
	if mode != MergeReplace && mode != MergeDeep {
		b.setErr(fmt.Errorf("unknown merge mode %v", mode))
		return b
	}
	b.opts.MergeMode = mode
	return b
}

// WithTagName sets the struct tag used by BuildInto
func (b *Builder) WithTagName(tagName string) *Builder {
	if !supportedTagNames[tagName] {
		b.setErr(fmt.Errorf("unsupported tag name %q", tagName))
		return b
	}
	b.tagName = tagName
	return b
}

// WithSettings applies loaded Settings
func (b *Builder) WithSettings(s Settings) *Builder {
	mode, err := ParseMergeMode(s.MergeMode)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.WithMaxPasses(int(s.MaxPasses))
	b.WithStrictScope(s.StrictScope)
	b.WithMergeMode(mode)
	return b
}

// WithValidator adds a validation function that runs on every resolved record.
// Multiple validators run in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Define queues a factory definition
func (b *Builder) Define(name string, producer Producer) *Builder {
	b.defs = append(b.defs, definition{name: name, producer: producer})
	return b
}

// DefineDocument queues a factory whose template is a TOML, YAML or JSON document
func (b *Builder) DefineDocument(name string, data []byte, format string) *Builder {
	b.defs = append(b.defs, definition{name: name, document: data, format: format})
	return b
}

// Build creates the Factory with all specified options
func (b *Builder) Build() (*Factory, error) {
	if b.err != nil {
		return nil, b.err
	}

	registry := b.registry
	if registry == nil {
		registry = NewRegistry()
	}
	sequencer := b.sequencer
	if sequencer == nil {
		sequencer = NewSequencer()
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var defErrs []error
	for _, def := range b.defs {
		var err error
		if def.producer != nil {
			err = registry.Define(def.name, def.producer)
		} else if def.document != nil {
			err = registry.DefineDocument(def.name, def.document, def.format)
		} else {
			err = fmt.Errorf("factory %q: nil producer", def.name)
		}
		if err != nil {
			defErrs = append(defErrs, err)
		}
	}
	if len(defErrs) > 0 {
		return nil, fmt.Errorf("failed to define factories: %w", errors.Join(defErrs...))
	}

	opts := b.opts
	opts.Logger = logger

	return &Factory{
		registry:   registry,
		resolver:   NewResolver(opts),
		sequencer:  sequencer,
		validators: b.validators,
		tagName:    b.tagName,
		logger:     logger,
	}, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Factory {
	f, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("fixture factory build failed: %v", err))
	}
	return f
}

// setErr keeps the first configuration error
func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
