// FILE: lixenwraith/fixture/settings.go
package fixture

import (
	"fmt"

	"github.com/lixenwraith/config"
)

// Settings holds the engine options that can come from the environment or
// command line, so a test suite can tighten resolution without code changes.
type Settings struct {
	MaxPasses   int64  `toml:"max_passes"`
	StrictScope bool   `toml:"strict_scope"`
	MergeMode   string `toml:"merge_mode"`
}

// DefaultSettings returns the settings matching DefaultResolverOptions
func DefaultSettings() Settings {
	return Settings{
		MaxPasses:   DefaultMaxPasses,
		StrictScope: false,
		MergeMode:   MergeReplace.String(),
	}
}

// LoadSettings reads Settings with precedence CLI > environment > defaults.
// With envPrefix "FIXTURE_", max_passes is read from FIXTURE_MAX_PASSES and
// args may carry "--max_passes=64".
func LoadSettings(envPrefix string, args []string) (Settings, error) {
	cfg := config.New()
	if err := cfg.RegisterStruct("", DefaultSettings()); err != nil {
		return Settings{}, fmt.Errorf("failed to register settings: %w", err)
	}

	opts := config.LoadOptions{
		Sources:   []config.Source{config.SourceCLI, config.SourceEnv, config.SourceDefault},
		EnvPrefix: envPrefix,
	}
	if err := cfg.LoadWithOptions("", args, opts); err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	s := DefaultSettings()
	var err error
	if s.MaxPasses, err = cfg.Int64("max_passes"); err != nil {
		return Settings{}, fmt.Errorf("max_passes: %w", err)
	}
	if s.StrictScope, err = cfg.Bool("strict_scope"); err != nil {
		return Settings{}, fmt.Errorf("strict_scope: %w", err)
	}
	if s.MergeMode, err = cfg.String("merge_mode"); err != nil {
		return Settings{}, fmt.Errorf("merge_mode: %w", err)
	}

	if s.MaxPasses <= 0 {
		return Settings{}, fmt.Errorf("max_passes must be positive, got %d", s.MaxPasses)
	}
	if _, err := ParseMergeMode(s.MergeMode); err != nil {
		return Settings{}, err
	}

	return s, nil
}
