package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/fae/internal/symbols"
)

func TestPathFor_DeterministicPerRoot(t *testing.T) {
	p1, err := PathFor("/a/b/c")
	require.NoError(t, err)
	p2, err := PathFor("/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	p3, err := PathFor("/a/b/d")
	require.NoError(t, err)
	assert.NotEqual(t, p1, p3)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	root := t.TempDir()
	cf := &CacheFile{
		FormatVersion: CurrentFormatVersion,
		CreatedAt:     time.Now(),
		ToolVersion:   "0.1.0",
		Files: map[string]CacheEntry{
			"src/main.rs": {ContentHash: 42, ByteSize: 100, Symbols: []symbols.Record{
				{Name: "widget_new", Kind: symbols.Function, Path: "src/main.rs", Line: 3, Col: 4},
			}},
		},
	}

	require.NoError(t, Save(root, cf))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, cf.FormatVersion, loaded.FormatVersion)
	assert.Equal(t, cf.ToolVersion, loaded.ToolVersion)
	require.Contains(t, loaded.Files, "src/main.rs")
	assert.Equal(t, uint64(42), loaded.Files["src/main.rs"].ContentHash)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	_, err := Load(filepath.Join(t.TempDir(), "nonexistent-root"))
	assert.Error(t, err)
}

func TestLoad_VersionMismatchErrors(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	root := t.TempDir()
	cf := &CacheFile{FormatVersion: CurrentFormatVersion + 1, Files: map[string]CacheEntry{}}
	require.NoError(t, Save(root, cf))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestBuildFromIndexAndRestore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	absPath := filepath.Join(root, "src", "main.rs")
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0o755))
	content := []byte("fn widget_new() {}\n")
	require.NoError(t, os.WriteFile(absPath, content, 0o644))

	idx := symbols.NewIndex()
	idx.Update(absPath, content)
	require.Equal(t, 1, idx.Len())

	cf := BuildFromIndex(root, idx)
	require.Contains(t, cf.Files, "src/main.rs")

	fresh := symbols.NewIndex()
	RestoreToIndex(root, cf, fresh)
	assert.Equal(t, 1, fresh.Len())

	// A subsequent Update with identical content must be a no-op against
	// the restored hash, not a re-extraction.
	before := fresh.All()
	fresh.Update(absPath, content)
	after := fresh.All()
	assert.Equal(t, before, after)
}

func TestRestoreToIndex_NilCacheIsNoOp(t *testing.T) {
	idx := symbols.NewIndex()
	RestoreToIndex("/whatever", nil, idx)
	assert.Equal(t, 0, idx.Len())
}
