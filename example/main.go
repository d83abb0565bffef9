// FILE: lixenwraith/fixture/example/main.go
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/fixture"
)

// User is the typed form of the "user" factory
type User struct {
	ID         string        `toml:"id"`
	Name       string        `toml:"name"`
	Email      string        `toml:"email"`
	Handle     string        `toml:"handle"`
	Role       string        `toml:"role"`
	SessionTTL time.Duration `toml:"session_ttl"`
	Address    struct {
		City    string `toml:"city"`
		Country string `toml:"country"`
	} `toml:"address"`
}

const postTemplate = `
title = "Hello"
body = "Lorem ipsum"
tags = ["intro", "draft"]

[meta]
visibility = "public"
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	settings, err := fixture.LoadSettings("FIXTURE_", os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	seq := fixture.NewSequencer()
	roles := []string{"admin", "editor", "viewer"}

	f, err := fixture.NewBuilder().
		WithSequencer(seq).
		WithLogger(logger).
		WithSettings(settings).
		Define("user", func() (*fixture.Record, error) {
			return fixture.NewRecord(map[string]any{
				"id":   fixture.UUID(),
				"name": "Jane Doe",
				"email": seq.Sequence("user.email", func(n int64) any {
					return fmt.Sprintf("user%d@example.com", n)
				}),
				"role": func() any {
					return fixture.Cycle(seq, "user.role", roles)
				},
				"session_ttl": "30m",
				"address": map[string]any{
					"city":    "Lisbon",
					"country": "PT",
				},
				// Weight 0: sees the final name
				"handle": fixture.Defer(func(s fixture.Scope) any {
					return strings.ReplaceAll(strings.ToLower(s.String("name")), " ", ".")
				}),
				// Weight 1: sees the handle computed in the previous pass
				"profile_url": fixture.DeferWeighted(1, func(s fixture.Scope) any {
					return "https://example.com/u/" + s.String("handle")
				}),
			}), nil
		}).
		DefineDocument("post", []byte(postTemplate), fixture.FormatTOML).
		Build()
	if err != nil {
		log.Fatalf("Failed to build factory: %v", err)
	}

	users, err := f.BuildList(3, "user", fixture.Overrides{"address.city": "Porto"})
	if err != nil {
		log.Fatalf("Failed to build users: %v", err)
	}
	for _, u := range users {
		fmt.Print(u.Debug())
	}

	var typed User
	if err := f.BuildInto("user", fixture.Overrides{"name": "John Smith"}, &typed); err != nil {
		log.Fatalf("Failed to build typed user: %v", err)
	}
	fmt.Printf("Typed user: %+v\n", typed)

	post, err := f.Build("post", fixture.Overrides{
		"author": fixture.Lazy(func(fixture.Scope) any {
			return typed.Handle
		}),
	})
	if err != nil {
		log.Fatalf("Failed to build post: %v", err)
	}
	doc, err := post.TOML()
	if err != nil {
		log.Fatalf("Failed to encode post: %v", err)
	}
	fmt.Println(doc)
}
