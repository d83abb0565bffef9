// File: lixenwraith/fixture/convenience.go
package fixture

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Quick creates a factory with default options and the given definitions.
// It is the shortest way to get a working factory in a test.
func Quick(definitions map[string]Producer) (*Factory, error) {
	b := NewBuilder()
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.Define(name, definitions[name])
	}
	return b.Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(definitions map[string]Producer) *Factory {
	f, err := Quick(definitions)
	if err != nil {
		panic(fmt.Sprintf("fixture initialization failed: %v", err))
	}
	return f
}

// Debug returns a formatted listing of every field with its kind and value
func (r *Record) Debug() string {
	var b strings.Builder
	b.WriteString("Record:\n")
	fmt.Fprintf(&b, "Strict: %v\n", r.strict)
	r.debugFields(&b, "  ")
	return b.String()
}

func (r *Record) debugFields(b *strings.Builder, indent string) {
	for _, name := range r.Keys() {
		v := r.fields[name]
		switch x := v.(type) {
		case Literal:
			fmt.Fprintf(b, "%s%s: %v\n", indent, name, x.V)
		case *Deferred:
			fmt.Fprintf(b, "%s%s: <deferred weight=%d>\n", indent, name, x.weight)
		case Lazy:
			fmt.Fprintf(b, "%s%s: <lazy>\n", indent, name)
		case Nested:
			if x.record != nil {
				fmt.Fprintf(b, "%s%s:\n", indent, name)
				x.record.debugFields(b, indent+"  ")
			} else {
				p, _ := plain(x)
				fmt.Fprintf(b, "%s%s: %v\n", indent, name, p)
			}
		}
	}
}

// TOML encodes the plain form of the record as a TOML document
func (r *Record) TOML() (string, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(r.Map()); err != nil {
		return "", fmt.Errorf("failed to marshal record to TOML: %w", err)
	}
	return buf.String(), nil
}
