package config

// defaultStopNames mirrors the resolution builder's own stop-name set so a
// freshly generated config file documents the same defaults it loads.
var defaultStopNames = []string{"this", "super", "undefined", "null", "true", "false", "arguments"}

// DefaultConfig returns configuration with the documented defaults.
// These defaults are used when no config file exists or when a config file
// is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Budget: BudgetConfig{
			TypeCheckerBudget: 5000,
		},
		Resolve: ResolveConfig{
			MaxReexportDepth: 4,
			Paths:            map[string]string{},
		},
		Filter: FilterConfig{
			ASTMinNameLength:      2,
			MinInferredConfidence: 0.5,
			StopNames:             append([]string(nil), defaultStopNames...),
		},
	}
}

// Merge merges loaded config with defaults. Values from loaded config take
// precedence over defaults. Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Budget:  mergeBudgetConfig(loaded.Budget, defaults.Budget),
		Resolve: mergeResolveConfig(loaded.Resolve, defaults.Resolve),
		Filter:  mergeFilterConfig(loaded.Filter, defaults.Filter),
	}
}

func mergeBudgetConfig(loaded, defaults BudgetConfig) BudgetConfig {
	result := BudgetConfig{}
	if loaded.TypeCheckerBudget != 0 {
		result.TypeCheckerBudget = loaded.TypeCheckerBudget
	} else {
		result.TypeCheckerBudget = defaults.TypeCheckerBudget
	}
	return result
}

func mergeResolveConfig(loaded, defaults ResolveConfig) ResolveConfig {
	result := ResolveConfig{}

	if loaded.MaxReexportDepth != 0 {
		result.MaxReexportDepth = loaded.MaxReexportDepth
	} else {
		result.MaxReexportDepth = defaults.MaxReexportDepth
	}

	if len(loaded.Paths) > 0 {
		result.Paths = loaded.Paths
	} else {
		result.Paths = defaults.Paths
	}

	return result
}

func mergeFilterConfig(loaded, defaults FilterConfig) FilterConfig {
	result := FilterConfig{}

	if loaded.ASTMinNameLength != 0 {
		result.ASTMinNameLength = loaded.ASTMinNameLength
	} else {
		result.ASTMinNameLength = defaults.ASTMinNameLength
	}

	// MinInferredConfidence may legitimately be 0 (gate disabled), but a
	// loaded zero value is indistinguishable from "not set" under YAML
	// unmarshaling, so an explicit 0 still falls back to the default; a
	// caller who truly wants no gate sets the config directly in Go.
	if loaded.MinInferredConfidence != 0 {
		result.MinInferredConfidence = loaded.MinInferredConfidence
	} else {
		result.MinInferredConfidence = defaults.MinInferredConfidence
	}

	if len(loaded.StopNames) > 0 {
		result.StopNames = loaded.StopNames
	} else {
		result.StopNames = defaults.StopNames
	}

	return result
}
