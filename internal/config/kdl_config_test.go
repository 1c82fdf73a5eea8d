package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKDL_MissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
	name "demo"
}
index {
	max_file_bytes 2097152
	respect_hidden false
	parallel_workers 4
}
search {
	debounce_ms 150
	fuzzy_threshold 0.4
	results_max 500
}
backend {
	preference "ag" "builtin"
}
include {
	"src/**"
}
exclude {
	"**/fixtures/**"
}
ignore_files {
	".dockerignore"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fae.kdl"), []byte(content), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, int64(2097152), cfg.Index.MaxFileBytes)
	assert.False(t, cfg.Index.RespectHidden)
	assert.Equal(t, 4, cfg.Index.ParallelWorkers)
	assert.Equal(t, 150, cfg.Search.DebounceMs)
	assert.Equal(t, 0.4, cfg.Search.FuzzyThreshold)
	assert.Equal(t, 500, cfg.Search.ResultsMax)
	assert.Equal(t, []string{"ag", "builtin"}, cfg.Backend.Preference)
	assert.Contains(t, cfg.Include, "src/**")
	assert.Contains(t, cfg.Exclude, "**/fixtures/**")
	assert.Contains(t, cfg.IgnoreFiles, ".dockerignore")
}

func TestLoadKDL_RelativeProjectRootResolvedAgainstFile(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
	root "./sub"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fae.kdl"), []byte(content), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, filepath.Join(dir, "sub"), cfg.Project.Root)
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"10B":   10,
		"1KB":   1024,
		"2MB":   2 * 1024 * 1024,
		"1GB":   1024 * 1024 * 1024,
		"512":   512,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("YES"))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool("no"))
	assert.False(t, parseBool("garbage"))
}
