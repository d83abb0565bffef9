// File: lixenwraith/fixture/doc.go

// Package fixture builds test fixtures from named factories. A factory
// produces a template record whose fields are literal values, lazy functions
// or deferred computations; a build merges caller overrides into the template
// and resolves every field.
//
// Features:
//   - Explicit factory registry, templates from producers, structs or TOML/YAML/JSON documents
//   - Override precedence with replace or deep merge, dot-path overrides
//   - Lazy fields evaluated with the enclosing record as scope
//   - Weighted deferred fields that see the final values of lower-weight siblings
//   - Thread-safe unique sequences for "one value per build" fields
//   - Decoding of resolved records into typed structs
//
// Quick Start:
//
//	seq := fixture.NewSequencer()
//
//	f, err := fixture.NewBuilder().
//	    WithSequencer(seq).
//	    Define("user", func() (*fixture.Record, error) {
//	        return fixture.NewRecord(map[string]any{
//	            "name":  "Jane",
//	            "email": seq.Sequence("email", func(n int64) any {
//	                return fmt.Sprintf("user%d@example.com", n)
//	            }),
//	            "handle": fixture.Defer(func(s fixture.Scope) any {
//	                return strings.ToLower(s.String("name"))
//	            }),
//	        }), nil
//	    }).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := f.Build("user", fixture.Overrides{"name": "John"})
//	users, err := f.BuildList(3, "user", nil)
//
// Resolution Order:
//  1. Overrides replace template fields (strict records reject unknown fields)
//  2. Lazy fields are evaluated depth first until no function remains
//  3. Deferred fields are computed in passes of increasing weight; a deferred
//     field of weight W sees every sibling of weight below W with its final value
//
// Thread Safety:
// Factory, Registry, Resolver and Sequencer are safe for concurrent use.
// Each build works on its own copy of the template.
package fixture
