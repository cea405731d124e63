// Package config provides the configuration system for canvasedit.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Overrides (flags)       │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← CANVASEDIT_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← canvasedit.toml or .yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile("canvasedit.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	maxEntries := cfg.History().MaxEntries
//
// Section accessors return snapshot structs. Values of the wrong type fall
// back to the default and are reported by Validate.
package config
