package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("/tmp/project")

	assert.Equal(t, "/tmp/project", cfg.Project.Root)
	assert.Equal(t, int64(DefaultMaxFileBytes), cfg.Index.MaxFileBytes)
	assert.True(t, cfg.Index.RespectIgnore)
	assert.True(t, cfg.Index.RespectHidden)
	assert.False(t, cfg.Index.FollowSymlinks)
	assert.Equal(t, DefaultFuzzyThreshold, cfg.Search.FuzzyThreshold)
	assert.Equal(t, []string{"ripgrep", "ag", "builtin"}, cfg.Backend.Preference)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}

func TestDefault_EmptyRootUsesCwd(t *testing.T) {
	cfg := Default("")
	assert.NotEmpty(t, cfg.Project.Root)
}

func TestMergeConfigs_UnionsExclude(t *testing.T) {
	base := Default("/project")
	override := &Config{
		Exclude: []string{"**/vendor/**", "**/.git/**"},
	}

	merged := mergeConfigs(base, override)

	assert.Contains(t, merged.Exclude, "**/.git/**")
	assert.Contains(t, merged.Exclude, "**/vendor/**")

	seen := map[string]int{}
	for _, p := range merged.Exclude {
		seen[p]++
	}
	assert.Equal(t, 1, seen["**/.git/**"])
}

func TestMergeConfigs_FallsBackToBaseBackendPreference(t *testing.T) {
	base := Default("/project")
	override := &Config{}

	merged := mergeConfigs(base, override)

	assert.Equal(t, base.Backend.Preference, merged.Backend.Preference)
}

func TestLoad_NoKDLFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Project.Root)
}

func TestLoad_WithKDLFile(t *testing.T) {
	dir := t.TempDir()
	kdlContent := `
project {
	name "sample"
}
search {
	debounce_ms 250
	fuzzy_threshold 0.5
}
exclude {
	"**/testdata/**"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fae.kdl"), []byte(kdlContent), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Project.Name)
	assert.Equal(t, 250, cfg.Search.DebounceMs)
	assert.Equal(t, 0.5, cfg.Search.FuzzyThreshold)
	assert.Contains(t, cfg.Exclude, "**/testdata/**")
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}
