// Package config loads quill settings.
//
// Settings come from built-in defaults, then an optional TOML or YAML file,
// then QUILL_-prefixed environment variables. The file format is chosen by
// extension:
//
//	[editor]
//	tab_width = 4
//	max_undo_entries = 0    # 0 keeps every entry
//	coalesce_inserts = false
//	line_ending = ""        # "", "lf", "crlf" or "cr"; empty detects
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[script]
//	timeout = "5s"
//	call_stack_size = 256
//
// A Watcher reloads the file when it changes on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/quill/internal/engine"
)

// Config holds all quill settings.
type Config struct {
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Script ScriptConfig `toml:"script" yaml:"script"`
}

// EditorConfig configures document engines.
type EditorConfig struct {
	// TabWidth is the tab stop interval for visual columns.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// MaxUndoEntries bounds the undo log. Zero means unbounded.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// CoalesceInserts merges consecutively typed chars into one undo step.
	CoalesceInserts bool `toml:"coalesce_inserts" yaml:"coalesce_inserts"`

	// LineEnding forces the export line ending ("lf", "crlf", "cr").
	// Empty keeps the style detected from each file.
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ScriptConfig configures the Lua script runner.
type ScriptConfig struct {
	// Timeout cancels a script that runs too long. Zero disables it.
	Timeout Duration `toml:"timeout" yaml:"timeout"`

	// CallStackSize bounds Lua call depth.
	CallStackSize int `toml:"call_stack_size" yaml:"call_stack_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:       engine.DefaultTabWidth,
			MaxUndoEntries: engine.DefaultMaxUndoEntries,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Script: ScriptConfig{
			Timeout:       Duration(5 * time.Second),
			CallStackSize: 256,
		},
	}
}

// DefaultPath returns the user config file location,
// e.g. ~/.config/quill/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quill", "config.toml")
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	check(c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16,
		"editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	check(c.Editor.MaxUndoEntries >= 0,
		"editor.max_undo_entries", "must not be negative", c.Editor.MaxUndoEntries)
	_, leErr := ParseLineEnding(c.Editor.LineEnding)
	check(leErr == nil,
		"editor.line_ending", `must be "", "lf", "crlf" or "cr"`, c.Editor.LineEnding)
	check(oneOf(c.Log.Level, validLevels),
		"log.level", "must be one of "+strings.Join(validLevels, ", "), c.Log.Level)
	check(oneOf(c.Log.Format, validFormats),
		"log.format", "must be one of "+strings.Join(validFormats, ", "), c.Log.Format)
	check(c.Script.Timeout >= 0,
		"script.timeout", "must not be negative", c.Script.Timeout)
	check(c.Script.CallStackSize > 0,
		"script.call_stack_size", "must be positive", c.Script.CallStackSize)

	return errors.Join(errs...)
}

// EngineOptions converts the editor settings into engine options.
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithTabWidth(c.Editor.TabWidth),
		engine.WithMaxUndoEntries(c.Editor.MaxUndoEntries),
		engine.WithCoalescing(c.Editor.CoalesceInserts),
	}
	if le, err := ParseLineEnding(c.Editor.LineEnding); err == nil && c.Editor.LineEnding != "" {
		opts = append(opts, engine.WithLineEnding(le))
	}
	return opts
}

// ParseLineEnding converts "lf", "crlf" or "cr" to a line ending.
// The empty string maps to LF.
func ParseLineEnding(s string) (engine.LineEnding, error) {
	switch strings.ToLower(s) {
	case "", "lf":
		return engine.LineEndingLF, nil
	case "crlf":
		return engine.LineEndingCRLF, nil
	case "cr":
		return engine.LineEndingCR, nil
	default:
		return engine.LineEndingLF, fmt.Errorf("unknown line ending %q", s)
	}
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if strings.EqualFold(s, o) {
			return true
		}
	}
	return false
}

// Duration is a time.Duration written as a string like "1.5s" in files.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
