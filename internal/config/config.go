// Package config provides layered configuration for rewind.
//
// Settings are resolved from three layers, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML configuration file
//  3. REWIND_* environment variables
//
// Layers are merged as plain maps and then decoded into Config with
// unknown keys rejected, so a typo in a config file is an error rather
// than a silently ignored setting.
package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/engine/state"
	"github.com/dshills/rewind/internal/logging"
)

// Config is the resolved rewind configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	History HistoryConfig `toml:"history"`
	Editor  EditorConfig  `toml:"editor"`
	Game    GameConfig    `toml:"game"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// HistoryConfig controls history behavior.
type HistoryConfig struct {
	// StrictOverrides rejects unknown override keys instead of ignoring them.
	StrictOverrides bool `toml:"strict_overrides"`
}

// EditorConfig is the starting state of an editor session.
type EditorConfig struct {
	InitialContent string `toml:"initial_content"`
	InitialCursor  int    `toml:"initial_cursor"`
}

// GameConfig is the starting state of a game session.
type GameConfig struct {
	Level     int      `toml:"level"`
	Health    int      `toml:"health"`
	Position  string   `toml:"position"`
	Inventory []string `toml:"inventory"`
}

// sections lists the top-level keys accepted from the environment.
var sections = []string{"logging", "history", "editor", "game"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		History: HistoryConfig{StrictOverrides: true},
		Editor:  EditorConfig{InitialContent: "Initial content"},
		Game: GameConfig{
			Level:    1,
			Health:   100,
			Position: "Start",
		},
	}
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if _, ok := logging.ParseLogLevel(c.Logging.Level); !ok {
		return &ValidationError{Path: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Editor.InitialCursor < 0 {
		return &ValidationError{Path: "editor.initial_cursor", Message: "must not be negative"}
	}
	if c.Game.Level < 1 {
		return &ValidationError{Path: "game.level", Message: "must be at least 1"}
	}
	if c.Game.Health < 0 {
		return &ValidationError{Path: "game.health", Message: "must not be negative"}
	}
	return nil
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLogLevel(c.Logging.Level)
	return level
}

// KeyPolicy returns the override key policy.
func (c Config) KeyPolicy() state.KeyPolicy {
	return state.PolicyFor(c.History.StrictOverrides)
}

// InitialEditorState returns the configured editor starting snapshot.
func (c Config) InitialEditorState() state.EditorState {
	return state.NewEditorState(c.Editor.InitialContent, c.Editor.InitialCursor, false)
}

// InitialGameState returns the configured game starting snapshot.
func (c Config) InitialGameState() state.GameState {
	return state.NewGameState(c.Game.Level, c.Game.Health, c.Game.Position, c.Game.Inventory...)
}

// Options controls how Load resolves configuration.
type Options struct {
	// Path is the configuration file. Empty skips the file layer.
	Path string
	// Required makes a missing file an error.
	Required bool
	// FS reads the file. Defaults to the OS file system.
	FS loader.FileSystem
	// Env reads environment overrides. Defaults to REWIND_ variables;
	// set SkipEnv to ignore the environment entirely.
	Env     loader.Loader
	SkipEnv bool
}

// Load resolves the configuration layers described by opts.
func Load(opts Options) (Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}

	if opts.Path != "" {
		fileLoader, err := loader.ForPath(opts.FS, opts.Path)
		if err != nil {
			return Config{}, err
		}
		fileValues, err := fileLoader.Load()
		if err != nil {
			return Config{}, err
		}
		if fileValues == nil && opts.Required {
			return Config{}, fmt.Errorf("%s: %w", opts.Path, ErrFileNotFound)
		}
		merged = loader.DeepMerge(merged, fileValues)
	}

	if !opts.SkipEnv {
		env := opts.Env
		if env == nil {
			env = loader.NewEnvLoader(loader.DefaultEnvPrefix).WithSections(sections...)
		}
		envValues, err := env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envValues)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// toMap converts a Config into the generic map form used for layering.
func toMap(cfg Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return m, nil
}

// fromMap decodes merged layers into a Config, rejecting unknown keys.
func fromMap(m map[string]any) (Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encoding configuration: %w", err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownSetting, strict.String())
		}
		return Config{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	if len(cfg.Game.Inventory) == 0 {
		cfg.Game.Inventory = nil
	}
	return cfg, nil
}
