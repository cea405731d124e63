package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/canvasedit/internal/config/loader"
)

// Layer names, lowest priority first.
const (
	LayerDefaults  = "defaults"
	LayerFile      = "file"
	LayerEnv       = "env"
	LayerOverrides = "overrides"
)

var layerOrder = []string{LayerDefaults, LayerFile, LayerEnv, LayerOverrides}

// Config provides merged access to the canvasedit configuration.
type Config struct {
	mu sync.RWMutex

	layers map[string]map[string]any
	merged map[string]any

	fs           loader.FileSystem
	path         string
	pathRequired bool
	envPrefix    string
	env          loader.Loader
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile loads the file at path; a missing file is an error.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
		c.pathRequired = true
	}
}

// WithOptionalFile loads the file at path if it exists.
func WithOptionalFile(path string) Option {
	return func(c *Config) {
		c.path = path
		c.pathRequired = false
	}
}

// WithFileSystem sets the file system used to read config files.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnvLoader replaces the environment layer source.
func WithEnvLoader(l loader.Loader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// New creates a Config holding only the defaults. Call Load to read the
// file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    map[string]map[string]any{LayerDefaults: defaultConfig()},
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.env == nil && c.envPrefix != "" {
		c.env = loader.NewEnvLoader(c.envPrefix)
	}
	c.merge()
	return c
}

// Load reads the file and environment layers and re-merges.
func (c *Config) Load(_ context.Context) error {
	fileData, envData, err := c.readLayers()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers[LayerFile] = fileData
	c.layers[LayerEnv] = envData
	c.merge()
	return nil
}

// Reload re-reads the file and environment layers and commits them only if
// the result validates. On error the previous configuration stays in effect.
func (c *Config) Reload(_ context.Context) error {
	fileData, envData, err := c.readLayers()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	candidate := &Config{layers: make(map[string]map[string]any, len(c.layers))}
	for name, data := range c.layers {
		candidate.layers[name] = data
	}
	candidate.layers[LayerFile] = fileData
	candidate.layers[LayerEnv] = envData
	candidate.merge()
	if err := candidate.Validate(); err != nil {
		return err
	}

	c.layers = candidate.layers
	c.merged = candidate.merged
	return nil
}

func (c *Config) readLayers() (fileData, envData map[string]any, err error) {
	if c.path != "" {
		l, ferr := loader.ForPath(c.fs, c.path)
		if ferr != nil {
			return nil, nil, fmt.Errorf("loading config: %w", ferr)
		}
		fileData, err = l.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		if fileData == nil && c.pathRequired {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, c.path)
		}
	}

	if c.env != nil {
		envData, err = c.env.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("loading environment: %w", err)
		}
	}
	return fileData, envData, nil
}

// merge rebuilds the merged view. Callers hold the write lock or own c.
func (c *Config) merge() {
	merged := make(map[string]any)
	for _, name := range layerOrder {
		if data := c.layers[name]; data != nil {
			merged = loader.DeepMerge(merged, loader.Clone(data))
		}
	}
	c.merged = merged
}

// Path returns the config file path, if any.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			break
		}
		return int(val), nil
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Set sets a value at the given path in the overrides layer.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.layers[LayerOverrides] == nil {
		c.layers[LayerOverrides] = make(map[string]any)
	}
	if err := setPath(c.layers[LayerOverrides], path, value); err != nil {
		return err
	}
	c.merge()
	return nil
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

func (c *Config) getStringOr(path, def string) string {
	if s, err := c.GetString(path); err == nil {
		return s
	}
	return def
}

func (c *Config) getIntOr(path string, def int) int {
	if n, err := c.GetInt(path); err == nil {
		return n
	}
	return def
}

func (c *Config) getBoolOr(path string, def bool) bool {
	if b, err := c.GetBool(path); err == nil {
		return b
	}
	return def
}

func defaultConfig() map[string]any {
	return map[string]any{
		"history": map[string]any{
			"max_entries": DefaultMaxEntries,
		},
		"clipboard": map[string]any{
			"anchor_x": DefaultAnchorX,
			"anchor_y": DefaultAnchorY,
		},
		"document": map[string]any{
			"background_class": DefaultBackgroundClass,
		},
		"prompt": map[string]any{
			"assume": "",
		},
		"hooks": map[string]any{
			"new_element_script": "",
		},
		"logging": map[string]any{
			"level": "info",
		},
		"dispatcher": map[string]any{
			"metrics":          false,
			"recover_panics":   true,
			"max_repeat_count": DefaultMaxRepeatCount,
		},
		"watch": map[string]any{
			"enabled":     true,
			"debounce_ms": DefaultWatchDebounceMS,
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path, dropping empty parts.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
