package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/masmgr/vss2git-go/internal/changeset"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Changesets.AnyCommentThreshold != 0 {
		t.Errorf("AnyCommentThreshold = %d, expected 0", cfg.Changesets.AnyCommentThreshold)
	}
	if cfg.Changesets.EmptyCommentThreshold != 30 {
		t.Errorf("EmptyCommentThreshold = %d, expected 30", cfg.Changesets.EmptyCommentThreshold)
	}
	if cfg.Changesets.SameCommentThreshold != 600 {
		t.Errorf("SameCommentThreshold = %d, expected 600", cfg.Changesets.SameCommentThreshold)
	}
	if cfg.Changesets.ExcludeAllDestroyedItems {
		t.Error("ExcludeAllDestroyedItems should default to false")
	}
	if cfg.Changesets.UnnamedLabelFormat != changeset.DefaultUnnamedLabelFormat {
		t.Errorf("UnnamedLabelFormat = %q, expected %q", cfg.Changesets.UnnamedLabelFormat, changeset.DefaultUnnamedLabelFormat)
	}
	if cfg.Export.EmailDomain != "localhost" {
		t.Errorf("Export.EmailDomain = %q, expected localhost", cfg.Export.EmailDomain)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, expected info", cfg.Log.Level)
	}
}

func TestChangesetOptions(t *testing.T) {
	opts := DefaultConfig().ChangesetOptions()
	if opts != changeset.DefaultOptions() {
		t.Errorf("default ChangesetOptions() = %+v, expected %+v", opts, changeset.DefaultOptions())
	}

	cfg := DefaultConfig()
	cfg.Changesets.AnyCommentThreshold = 5
	cfg.Changesets.ExcludeAllDestroyedItems = true
	opts = cfg.ChangesetOptions()
	if opts.AnyCommentThreshold != 5*time.Second {
		t.Errorf("AnyCommentThreshold = %v, expected 5s", opts.AnyCommentThreshold)
	}
	if !opts.ExcludeAllDestroyedItems {
		t.Error("ExcludeAllDestroyedItems not carried over")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "Negative any", mutate: func(c *Config) { c.Changesets.AnyCommentThreshold = -1 }, wantErr: true},
		{name: "Negative same", mutate: func(c *Config) { c.Changesets.SameCommentThreshold = -1 }, wantErr: true},
		{name: "Zero same", mutate: func(c *Config) { c.Changesets.SameCommentThreshold = 0 }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{"changesets": {"sameCommentThreshold": 120}, "export": {"emailDomain": "corp.example"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Changesets.SameCommentThreshold != 120 {
		t.Errorf("SameCommentThreshold = %d, expected 120", cfg.Changesets.SameCommentThreshold)
	}
	if cfg.Changesets.EmptyCommentThreshold != 30 {
		t.Errorf("EmptyCommentThreshold = %d, expected default 30", cfg.Changesets.EmptyCommentThreshold)
	}
	if cfg.Export.EmailDomain != "corp.example" {
		t.Errorf("EmailDomain = %q, expected corp.example", cfg.Export.EmailDomain)
	}
	if cfg.Export.DefaultComment != "Imported from VSS" {
		t.Errorf("DefaultComment = %q, expected default", cfg.Export.DefaultComment)
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Changesets.SameCommentThreshold != 600 {
		t.Errorf("SameCommentThreshold = %d, expected 600", cfg.Changesets.SameCommentThreshold)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Invalid JSON", content: "{"},
		{name: "Negative threshold", content: `{"changesets": {"anyCommentThreshold": -5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	cfg := DefaultConfig()
	cfg.Filters.Exclude = []string{"**/*.exe"}
	cfg.Export.ForceAnnotatedTags = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(loaded.Filters.Exclude) != 1 || loaded.Filters.Exclude[0] != "**/*.exe" {
		t.Errorf("Filters.Exclude = %v", loaded.Filters.Exclude)
	}
	if !loaded.Export.ForceAnnotatedTags {
		t.Error("ForceAnnotatedTags not persisted")
	}
}
