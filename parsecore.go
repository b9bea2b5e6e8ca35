// Package parsecore is the parser core facade: the single public entry
// point a host embeds. It owns the lifetime of every internal component
// for one project root and exposes parseFile, parseDirectory, and
// parseIncremental as one Input-shaped Parse operation, a thin root file
// delegating to internal/ packages rather than introducing a separate
// orchestration layer.
package parsecore

import (
	"context"
	"time"

	"github.com/codeatlas/parsecore/internal/cache"
	"github.com/codeatlas/parsecore/internal/checker"
	"github.com/codeatlas/parsecore/internal/config"
	"github.com/codeatlas/parsecore/internal/incremental"
	"github.com/codeatlas/parsecore/internal/relate"
	"github.com/codeatlas/parsecore/internal/resolve"
)

// ParseResult re-exports the incremental layer's result shape: the full
// current entity/relationship set for the files touched by a Parse call,
// its diagnostics, and the delta against the prior cache state.
type ParseResult = incremental.ParseResult

// Input re-exports the incremental layer's scan request shape.
type Input = incremental.Input

// Config holds every tuning knob exposed to callers, composed of the
// relationship builder's resolution policy and the type-checker budget,
// both consumed across the resolver, builder, and incremental scan loop.
type Config struct {
	TypeCheckerBudget     int
	MaxReexportDepth      int
	MinNameLength         int
	MinInferredConfidence float64
	StopNames             map[string]bool
	PathAliases           map[string]string
}

// DefaultConfig returns the documented defaults for every knob.
func DefaultConfig() Config {
	rc := relate.DefaultConfig()
	return Config{
		TypeCheckerBudget:     checker.DefaultBudget,
		MaxReexportDepth:      resolve.MaxReexportDepth,
		MinNameLength:         rc.MinNameLength,
		MinInferredConfidence: rc.MinInferredConfidence,
		StopNames:             rc.StopNames,
	}
}

// FromFileConfig adapts a loaded on-disk configuration (internal/config's
// config.yaml shape) into the facade's own Config.
func FromFileConfig(c *config.Config) Config {
	stop := make(map[string]bool, len(c.Filter.StopNames))
	for _, name := range c.Filter.StopNames {
		stop[name] = true
	}
	return Config{
		TypeCheckerBudget:     c.Budget.TypeCheckerBudget,
		MaxReexportDepth:      c.Resolve.MaxReexportDepth,
		MinNameLength:         c.Filter.ASTMinNameLength,
		MinInferredConfidence: c.Filter.MinInferredConfidence,
		StopNames:             stop,
		PathAliases:           c.Resolve.Paths,
	}
}

func (c Config) toIncremental() incremental.Config {
	return incremental.Config{
		TypeCheckerBudget: c.TypeCheckerBudget,
		Relate: relate.Config{
			MinNameLength:         c.MinNameLength,
			MinInferredConfidence: c.MinInferredConfidence,
			StopNames:             c.StopNames,
			PathAliases:           c.PathAliases,
		},
	}
}

// Facade owns one project root's cache and configuration across as many
// Parse calls as the host chooses to make. A host that wants real
// incremental reuse (a daemon, a long-running watch process) keeps one
// Facade alive; a one-shot CLI invocation constructs a fresh one per run.
type Facade struct {
	parser *incremental.Parser
}

// New creates a Facade rooted at rootDir, with an empty cache.
func New(rootDir string, cfg Config) *Facade {
	applyGlobalConfig(cfg)
	fs := incremental.NewOSFileSystem(rootDir)
	return &Facade{parser: incremental.New(fs, cfg.toIncremental())}
}

// NewWithFileSystem creates a Facade over a caller-supplied FileSystem,
// letting tests and alternate hosts (an in-memory tree, a VFS overlay)
// substitute for the real disk.
func NewWithFileSystem(fs incremental.FileSystem, cfg Config) *Facade {
	applyGlobalConfig(cfg)
	return &Facade{parser: incremental.New(fs, cfg.toIncremental())}
}

// applyGlobalConfig sets the one tuning knob that lives outside any
// per-scan Config struct: the re-export follow depth, which the resolve
// package exposes as a process-wide variable rather than threading through
// every export-map call site.
func applyGlobalConfig(cfg Config) {
	if cfg.MaxReexportDepth > 0 {
		resolve.MaxReexportDepth = cfg.MaxReexportDepth
	}
}

// Stats reports the facade's current cache occupancy.
func (f *Facade) Stats() cache.Stats {
	return f.parser.Cache().Stats()
}

// Parse runs one scan for input, stamping every emitted entity and
// relationship with now. It is the one operation parseFile, parseDirectory,
// and parseIncremental below all reduce to.
func (f *Facade) Parse(ctx context.Context, input Input, now time.Time) *ParseResult {
	ctx = incremental.WithScanTime(ctx, now)
	return f.parser.Parse(ctx, input)
}

// ParseFile scans exactly one file, reusing the cache if it is unchanged
// since the last scan that touched it.
func (f *Facade) ParseFile(ctx context.Context, relPath string, now time.Time) *ParseResult {
	return f.Parse(ctx, Input{Files: []string{relPath}, Incremental: true}, now)
}

// ParseDirectory recursively discovers every file under relPath and scans
// them, reusing the cache for anything unchanged.
func (f *Facade) ParseDirectory(ctx context.Context, relPath string, now time.Time) *ParseResult {
	return f.Parse(ctx, Input{Directories: []string{relPath}, Incremental: true}, now)
}

// ParseIncremental is Parse with input.Incremental forced to true, so cached
// entries for unchanged files are always reused whatever the caller set.
func (f *Facade) ParseIncremental(ctx context.Context, input Input, now time.Time) *ParseResult {
	input.Incremental = true
	return f.Parse(ctx, input, now)
}

// ParseFull forces a full rescan, clearing the cache before running, the
// counterpart a host calls after an out-of-band change invalidates the
// facade's view of the filesystem.
func (f *Facade) ParseFull(ctx context.Context, input Input, now time.Time) *ParseResult {
	input.Incremental = false
	return f.Parse(ctx, input, now)
}

// InvalidatePath drops path's cached entry and every export map derived
// from it, for a host that tracks filesystem deletions itself and wants the
// next Parse call to treat path as new again.
func (f *Facade) InvalidatePath(relPath string) {
	f.parser.Cache().Remove(relPath)
}
