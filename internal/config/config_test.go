package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Budget.TypeCheckerBudget != 5000 {
		t.Errorf("expected type_checker_budget 5000, got %d", cfg.Budget.TypeCheckerBudget)
	}

	if cfg.Resolve.MaxReexportDepth != 4 {
		t.Errorf("expected max_reexport_depth 4, got %d", cfg.Resolve.MaxReexportDepth)
	}

	if cfg.Filter.ASTMinNameLength != 2 {
		t.Errorf("expected ast_min_name_length 2, got %d", cfg.Filter.ASTMinNameLength)
	}

	if cfg.Filter.MinInferredConfidence != 0.5 {
		t.Errorf("expected min_inferred_confidence 0.5, got %f", cfg.Filter.MinInferredConfidence)
	}

	if len(cfg.Filter.StopNames) == 0 {
		t.Error("expected non-empty default stop names")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "negative type checker budget",
			modify: func(c *Config) {
				c.Budget.TypeCheckerBudget = -1
			},
			wantErr: true,
		},
		{
			name: "reexport depth below one",
			modify: func(c *Config) {
				c.Resolve.MaxReexportDepth = 0
			},
			wantErr: true,
		},
		{
			name: "negative min name length",
			modify: func(c *Config) {
				c.Filter.ASTMinNameLength = -1
			},
			wantErr: true,
		},
		{
			name: "confidence above one",
			modify: func(c *Config) {
				c.Filter.MinInferredConfidence = 1.5
			},
			wantErr: true,
		},
		{
			name: "confidence below zero",
			modify: func(c *Config) {
				c.Filter.MinInferredConfidence = -0.1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		loaded := &Config{}
		merged := Merge(loaded, defaults)

		if merged.Budget.TypeCheckerBudget != defaults.Budget.TypeCheckerBudget {
			t.Errorf("expected budget %d, got %d", defaults.Budget.TypeCheckerBudget, merged.Budget.TypeCheckerBudget)
		}

		if merged.Filter.MinInferredConfidence != defaults.Filter.MinInferredConfidence {
			t.Errorf("expected confidence %f, got %f", defaults.Filter.MinInferredConfidence, merged.Filter.MinInferredConfidence)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Budget: BudgetConfig{TypeCheckerBudget: 1000},
			Resolve: ResolveConfig{
				MaxReexportDepth: 2,
				Paths:            map[string]string{"@app": "src/app"},
			},
		}
		merged := Merge(loaded, defaults)

		if merged.Budget.TypeCheckerBudget != 1000 {
			t.Errorf("expected budget 1000, got %d", merged.Budget.TypeCheckerBudget)
		}

		if merged.Resolve.MaxReexportDepth != 2 {
			t.Errorf("expected max_reexport_depth 2, got %d", merged.Resolve.MaxReexportDepth)
		}

		if merged.Resolve.Paths["@app"] != "src/app" {
			t.Errorf("expected loaded path alias to survive merge")
		}

		// Unset values should fall back to defaults.
		if merged.Filter.ASTMinNameLength != defaults.Filter.ASTMinNameLength {
			t.Errorf("expected default min name length %d, got %d", defaults.Filter.ASTMinNameLength, merged.Filter.ASTMinNameLength)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codegraph-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if err == nil {
			t.Error("expected error when no .codegraph directory exists")
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codegraph-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	t.Run("creates config directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		expectedDir := filepath.Join(tmpDir, ConfigDirName)
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("config directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("returns existing directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		expectedDir := filepath.Join(tmpDir, ConfigDirName)
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codegraph-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
budget:
  type_checker_budget: 2000
filter:
  min_inferred_confidence: 0.7
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if cfg.Budget.TypeCheckerBudget != 2000 {
			t.Errorf("expected type_checker_budget 2000, got %d", cfg.Budget.TypeCheckerBudget)
		}
		if cfg.Filter.MinInferredConfidence != 0.7 {
			t.Errorf("expected min_inferred_confidence 0.7, got %f", cfg.Filter.MinInferredConfidence)
		}

		// Defaults should fill in everything not set in the file.
		if cfg.Resolve.MaxReexportDepth != 4 {
			t.Errorf("expected default max_reexport_depth 4, got %d", cfg.Resolve.MaxReexportDepth)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		defaults := DefaultConfig()
		if cfg.Budget.TypeCheckerBudget != defaults.Budget.TypeCheckerBudget {
			t.Errorf("expected default budget, got %d", cfg.Budget.TypeCheckerBudget)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
filter:
  min_inferred_confidence: 5.0
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if err == nil {
			t.Error("expected error for out-of-range confidence")
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codegraph-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		defaults := DefaultConfig()
		if cfg.Budget.TypeCheckerBudget != defaults.Budget.TypeCheckerBudget {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from .codegraph directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}

		content := `
filter:
  min_inferred_confidence: 0.9
`
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if cfg.Filter.MinInferredConfidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %f", cfg.Filter.MinInferredConfidence)
		}
	})
}

func TestSaveDefault(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codegraph-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	t.Run("creates default config file", func(t *testing.T) {
		configPath, err := SaveDefault(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, ConfigDirName, ConfigFileName)
		if configPath != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, configPath)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Errorf("failed to load saved config: %v", err)
		}

		defaults := DefaultConfig()
		if cfg.Budget.TypeCheckerBudget != defaults.Budget.TypeCheckerBudget {
			t.Errorf("saved config doesn't match defaults")
		}
	})

	t.Run("fails if config already exists", func(t *testing.T) {
		_, err := SaveDefault(tmpDir)
		if err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
