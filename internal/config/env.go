package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "QUILL_"

// envSetting binds one environment variable to a field.
type envSetting struct {
	name string
	set  func(c *Config, v string) error
}

func intSetting(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetting(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringSetting(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

var envSettings = []envSetting{
	{"EDITOR_TAB_WIDTH", intSetting(func(c *Config) *int { return &c.Editor.TabWidth })},
	{"EDITOR_MAX_UNDO_ENTRIES", intSetting(func(c *Config) *int { return &c.Editor.MaxUndoEntries })},
	{"EDITOR_COALESCE_INSERTS", boolSetting(func(c *Config) *bool { return &c.Editor.CoalesceInserts })},
	{"EDITOR_LINE_ENDING", stringSetting(func(c *Config) *string { return &c.Editor.LineEnding })},
	{"LOG_LEVEL", stringSetting(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", stringSetting(func(c *Config) *string { return &c.Log.Format })},
	{"SCRIPT_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Script.Timeout = Duration(d)
		return nil
	}},
	{"SCRIPT_CALL_STACK_SIZE", intSetting(func(c *Config) *int { return &c.Script.CallStackSize })},
}

// EnvNames returns the recognized environment variables, e.g.
// QUILL_EDITOR_TAB_WIDTH.
func EnvNames() []string {
	names := make([]string, len(envSettings))
	for i, s := range envSettings {
		names[i] = EnvPrefix + s.name
	}
	return names
}

// ApplyEnv overrides cfg with QUILL_ variables found by lookup.
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	for _, s := range envSettings {
		name := EnvPrefix + s.name
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := s.set(cfg, v); err != nil {
			return fmt.Errorf("environment %s=%q: %w", name, v, err)
		}
	}
	return nil
}
