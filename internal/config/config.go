package config

import (
	"os"
	"runtime"
)

// Default values for the knobs enumerated by the search core.
const (
	DefaultDebounceMs     = 100
	DefaultMaxFileBytes   = 1024 * 1024
	DefaultFuzzyThreshold = 0.3
	DefaultResultsMax     = 10000
)

type Config struct {
	Version     int
	Project     Project
	Index       Index
	Search      Search
	Backend     Backend
	Include     []string
	Exclude     []string
	IgnoreFiles []string // extra ignore-filenames honored alongside .gitignore
}

type Project struct {
	Root string
	Name string
}

// Index controls what the File Walker feeds into the Symbol Index.
type Index struct {
	MaxFileBytes     int64
	RespectIgnore    bool
	RespectHidden    bool
	FollowSymlinks   bool
	ParallelWorkers  int // 0 = auto-detect: ValidateConfig sets max(1, NumCPU-1)
}

// Search controls strategy behaviour shared across modes.
type Search struct {
	DebounceMs     int
	FuzzyThreshold float64
	ResultsMax     int
}

// Backend controls the external-tool backend preference order.
type Backend struct {
	Preference []string // ordered: "ripgrep", "ag", "builtin"
}

// Load resolves configuration the way the CLI does: an optional .fae.kdl
// file in root, overlaid on compiled-in defaults.
func Load(root string) (*Config, error) {
	cfg := Default(root)

	kdlCfg, err := LoadKDL(root)
	if err != nil {
		return nil, err
	}
	if kdlCfg != nil {
		cfg = mergeConfigs(cfg, kdlCfg)
	}

	cfg.EnrichExclusionsWithBuildArtifacts()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration rooted at root.
func Default(root string) *Config {
	if root == "" {
		if cwd, err := os.Getwd(); err == nil {
			root = cwd
		} else {
			root = "."
		}
	}

	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileBytes:    DefaultMaxFileBytes,
			RespectIgnore:   true,
			RespectHidden:   true,
			FollowSymlinks:  false,
			ParallelWorkers: runtime.NumCPU(),
		},
		Search: Search{
			DebounceMs:     DefaultDebounceMs,
			FuzzyThreshold: DefaultFuzzyThreshold,
			ResultsMax:     DefaultResultsMax,
		},
		Backend: Backend{
			Preference: []string{"ripgrep", "ag", "builtin"},
		},
		Include:     []string{},
		Exclude:     []string{"**/.git/**"},
		IgnoreFiles: []string{".ignore"},
	}
}

// EnrichExclusionsWithBuildArtifacts scans the project root for
// language-specific build configuration files (package.json, Cargo.toml,
// pyproject.toml, ...) and appends any output directories they declare
// to Exclude, deduplicated against what's already there.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	detected := NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()
	if len(detected) == 0 {
		return
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
}

// mergeConfigs overlays override onto base: override wins field-by-field,
// except Exclude patterns which are unioned (mirrors the base-preserves-
// exclusions merge the teacher's multi-layer .lci.kdl loading used).
func mergeConfigs(base, override *Config) *Config {
	merged := *override

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(override.Exclude))
		combined := make([]string, 0, len(base.Exclude)+len(override.Exclude))
		for _, p := range base.Exclude {
			if !seen[p] {
				seen[p] = true
				combined = append(combined, p)
			}
		}
		for _, p := range override.Exclude {
			if !seen[p] {
				seen[p] = true
				combined = append(combined, p)
			}
		}
		merged.Exclude = combined
	}

	if len(override.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	if len(override.IgnoreFiles) == 0 && len(base.IgnoreFiles) > 0 {
		merged.IgnoreFiles = base.IgnoreFiles
	}
	if len(override.Backend.Preference) == 0 {
		merged.Backend.Preference = base.Backend.Preference
	}

	return &merged
}
