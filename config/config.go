package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/masmgr/vss2git-go/internal/changeset"
)

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = ".vss2git.json"

// Config is the root configuration structure.
type Config struct {
	Changesets ChangesetConfig `json:"changesets"`
	Filters    FilterConfig    `json:"filters"`
	Export     ExportConfig    `json:"export"`
	Log        LogConfig       `json:"log"`
}

// ChangesetConfig holds the grouping heuristics. Thresholds are in seconds.
type ChangesetConfig struct {
	AnyCommentThreshold      int    `json:"anyCommentThreshold"`   // Default: 0
	EmptyCommentThreshold    int    `json:"emptyCommentThreshold"` // Default: 30
	SameCommentThreshold     int    `json:"sameCommentThreshold"`  // Default: 600
	ExcludeAllDestroyedItems bool   `json:"excludeAllDestroyedItems"`
	UnnamedLabelFormat       string `json:"unnamedLabelFormat"`
}

// FilterConfig holds item path filtering options.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ExportConfig holds git export options.
type ExportConfig struct {
	EmailDomain        string `json:"emailDomain"`
	DefaultComment     string `json:"defaultComment"`
	DefaultBranch      string `json:"defaultBranch"`
	ForceAnnotatedTags bool   `json:"forceAnnotatedTags"`
}

// LogConfig holds trace log options.
type LogConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	defaults := changeset.DefaultOptions()
	return &Config{
		Changesets: ChangesetConfig{
			AnyCommentThreshold:   int(defaults.AnyCommentThreshold / time.Second),
			EmptyCommentThreshold: int(defaults.EmptyCommentThreshold / time.Second),
			SameCommentThreshold:  int(defaults.SameCommentThreshold / time.Second),
			UnnamedLabelFormat:    defaults.UnnamedLabelFormat,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Export: ExportConfig{
			EmailDomain:    "localhost",
			DefaultComment: "Imported from VSS",
			DefaultBranch:  "master",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects values the builder cannot work with.
func (c *Config) Validate() error {
	cs := c.Changesets
	if cs.AnyCommentThreshold < 0 || cs.EmptyCommentThreshold < 0 || cs.SameCommentThreshold < 0 {
		return fmt.Errorf("changeset thresholds must not be negative")
	}
	return nil
}

// ChangesetOptions converts the changeset section into builder options.
func (c *Config) ChangesetOptions() changeset.Options {
	cs := c.Changesets
	return changeset.Options{
		AnyCommentThreshold:      time.Duration(cs.AnyCommentThreshold) * time.Second,
		EmptyCommentThreshold:    time.Duration(cs.EmptyCommentThreshold) * time.Second,
		SameCommentThreshold:     time.Duration(cs.SameCommentThreshold) * time.Second,
		ExcludeAllDestroyedItems: cs.ExcludeAllDestroyedItems,
		UnnamedLabelFormat:       cs.UnnamedLabelFormat,
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{DefaultFileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, DefaultFileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, DefaultFileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
