package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the parser core's configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the parser core's configuration directory.
const ConfigDirName = ".codegraph"

// Config holds every tuning knob the resolution ladder and relationship
// builder expose, loaded from .codegraph/config.yaml and merged over
// DefaultConfig.
type Config struct {
	Budget  BudgetConfig  `yaml:"budget"`
	Resolve ResolveConfig `yaml:"resolve"`
	Filter  FilterConfig  `yaml:"filter"`
}

// BudgetConfig bounds how much type-checker work one scan may spend.
type BudgetConfig struct {
	TypeCheckerBudget int `yaml:"type_checker_budget"`
}

// ResolveConfig tunes the imported-member resolution ladder.
type ResolveConfig struct {
	MaxReexportDepth int               `yaml:"max_reexport_depth"`
	Paths            map[string]string `yaml:"paths"`
}

// FilterConfig tunes which names and edges are worth emitting at all.
type FilterConfig struct {
	ASTMinNameLength      int      `yaml:"ast_min_name_length"`
	MinInferredConfidence float64  `yaml:"min_inferred_confidence"`
	StopNames             []string `yaml:"stop_names"`
}

// ErrConfigNotFound is returned when no config file can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .codegraph/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .codegraph directory by walking up from startDir.
// Returns the path to the .codegraph directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .codegraph directory if it doesn't exist.
// Returns the path to the .codegraph directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are within the ranges the resolution
// ladder and relationship builder can actually use.
func Validate(cfg *Config) error {
	if cfg.Budget.TypeCheckerBudget < 0 {
		return fmt.Errorf("%w: type_checker_budget must be non-negative, got %d",
			ErrInvalidConfig, cfg.Budget.TypeCheckerBudget)
	}

	if cfg.Resolve.MaxReexportDepth < 1 {
		return fmt.Errorf("%w: max_reexport_depth must be at least 1, got %d",
			ErrInvalidConfig, cfg.Resolve.MaxReexportDepth)
	}

	if cfg.Filter.ASTMinNameLength < 0 {
		return fmt.Errorf("%w: ast_min_name_length must be non-negative, got %d",
			ErrInvalidConfig, cfg.Filter.ASTMinNameLength)
	}

	if cfg.Filter.MinInferredConfidence < 0 || cfg.Filter.MinInferredConfidence > 1 {
		return fmt.Errorf("%w: min_inferred_confidence must be between 0 and 1, got %f",
			ErrInvalidConfig, cfg.Filter.MinInferredConfidence)
	}

	return nil
}

// SaveDefault writes the default configuration to .codegraph/config.yaml in
// workDir. Creates the .codegraph directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# parser core configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
