package config

import (
	"errors"
	"strings"
	"time"
)

// Defaults for the built-in layer.
const (
	DefaultMaxEntries      = 100
	DefaultAnchorX         = 100
	DefaultAnchorY         = 100
	DefaultBackgroundClass = "background"
	DefaultMaxRepeatCount  = 1000
	DefaultWatchDebounceMS = 100
)

// Prompt answers accepted by prompt.assume.
const (
	AssumeNone = ""
	AssumeYes  = "yes"
	AssumeNo   = "no"
)

// HistoryConfig holds undo history settings.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack.
	MaxEntries int
}

// ClipboardConfig holds paste placement settings.
type ClipboardConfig struct {
	// AnchorX and AnchorY are the paste position relative to the viewport.
	AnchorX int
	AnchorY int
}

// DocumentConfig holds document model settings.
type DocumentConfig struct {
	// BackgroundClass is the class of the background container.
	BackgroundClass string
}

// PromptConfig holds confirmation settings.
type PromptConfig struct {
	// Assume answers every confirmation: "yes", "no", or "" to ask.
	Assume string
}

// HooksConfig holds script hook settings.
type HooksConfig struct {
	// NewElementScript is a Lua file run for every inserted element.
	NewElementScript string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string
}

// DispatcherConfig holds action dispatcher settings.
type DispatcherConfig struct {
	Metrics        bool
	RecoverPanics  bool
	MaxRepeatCount int
}

// WatchConfig holds live reload settings for interactive sessions.
type WatchConfig struct {
	// Enabled reloads the config file and hook script when they change.
	Enabled bool
	// Debounce coalesces rapid changes to one file.
	Debounce time.Duration
}

// History returns the history settings.
func (c *Config) History() HistoryConfig {
	n := c.getIntOr("history.max_entries", DefaultMaxEntries)
	if n <= 0 {
		n = DefaultMaxEntries
	}
	return HistoryConfig{MaxEntries: n}
}

// Clipboard returns the clipboard settings.
func (c *Config) Clipboard() ClipboardConfig {
	return ClipboardConfig{
		AnchorX: c.getIntOr("clipboard.anchor_x", DefaultAnchorX),
		AnchorY: c.getIntOr("clipboard.anchor_y", DefaultAnchorY),
	}
}

// Document returns the document settings.
func (c *Config) Document() DocumentConfig {
	class := strings.TrimSpace(c.getStringOr("document.background_class", DefaultBackgroundClass))
	if class == "" {
		class = DefaultBackgroundClass
	}
	return DocumentConfig{BackgroundClass: class}
}

// Prompt returns the prompt settings. A boolean assume value, as produced
// by CANVASEDIT_PROMPT_ASSUME=yes, maps to "yes" or "no".
func (c *Config) Prompt() PromptConfig {
	if b, err := c.GetBool("prompt.assume"); err == nil {
		if b {
			return PromptConfig{Assume: AssumeYes}
		}
		return PromptConfig{Assume: AssumeNo}
	}
	switch a := strings.ToLower(c.getStringOr("prompt.assume", AssumeNone)); a {
	case AssumeYes, AssumeNo:
		return PromptConfig{Assume: a}
	default:
		return PromptConfig{Assume: AssumeNone}
	}
}

// Hooks returns the hook settings.
func (c *Config) Hooks() HooksConfig {
	return HooksConfig{NewElementScript: c.getStringOr("hooks.new_element_script", "")}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{Level: c.getStringOr("logging.level", "info")}
}

// Watch returns the live reload settings.
func (c *Config) Watch() WatchConfig {
	ms := c.getIntOr("watch.debounce_ms", DefaultWatchDebounceMS)
	if ms < 0 {
		ms = DefaultWatchDebounceMS
	}
	return WatchConfig{
		Enabled:  c.getBoolOr("watch.enabled", true),
		Debounce: time.Duration(ms) * time.Millisecond,
	}
}

// Dispatcher returns the dispatcher settings.
func (c *Config) Dispatcher() DispatcherConfig {
	return DispatcherConfig{
		Metrics:        c.getBoolOr("dispatcher.metrics", false),
		RecoverPanics:  c.getBoolOr("dispatcher.recover_panics", true),
		MaxRepeatCount: c.getIntOr("dispatcher.max_repeat_count", DefaultMaxRepeatCount),
	}
}

// Validate reports every setting that holds a value of the wrong type or an
// unusable value.
func (c *Config) Validate() error {
	var errs []error
	check := func(path string, fn func(string) error) {
		if _, ok := c.Get(path); !ok {
			return
		}
		if err := fn(path); err != nil {
			errs = append(errs, err)
		}
	}
	str := func(path string) error { _, err := c.GetString(path); return err }
	boolean := func(path string) error { _, err := c.GetBool(path); return err }
	positive := func(path string) error {
		n, err := c.GetInt(path)
		if err != nil {
			return err
		}
		if n <= 0 {
			return &ValidationError{Path: path, Message: "must be positive", Value: n}
		}
		return nil
	}
	integer := func(path string) error { _, err := c.GetInt(path); return err }

	check("history.max_entries", positive)
	check("clipboard.anchor_x", integer)
	check("clipboard.anchor_y", integer)
	check("document.background_class", str)
	check("hooks.new_element_script", str)
	check("logging.level", func(path string) error {
		s, err := c.GetString(path)
		if err != nil {
			return err
		}
		switch strings.ToLower(s) {
		case "debug", "info", "warn", "warning", "error":
			return nil
		}
		return &ValidationError{Path: path, Message: "unknown level", Value: s}
	})
	check("prompt.assume", func(path string) error {
		if _, err := c.GetBool(path); err == nil {
			return nil
		}
		s, err := c.GetString(path)
		if err != nil {
			return err
		}
		switch strings.ToLower(s) {
		case AssumeNone, AssumeYes, AssumeNo:
			return nil
		}
		return &ValidationError{Path: path, Message: `must be "", "yes" or "no"`, Value: s}
	})
	check("dispatcher.metrics", boolean)
	check("dispatcher.recover_panics", boolean)
	check("dispatcher.max_repeat_count", positive)
	check("watch.enabled", boolean)
	check("watch.debounce_ms", func(path string) error {
		n, err := c.GetInt(path)
		if err != nil {
			return err
		}
		if n < 0 {
			return &ValidationError{Path: path, Message: "must not be negative", Value: n}
		}
		return nil
	})

	return errors.Join(errs...)
}
