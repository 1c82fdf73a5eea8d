// Package cache persists the Symbol Index to disk between runs, keyed by
// project root, so a second invocation against an unchanged tree can skip
// re-parsing entirely. Grounded on the teacher's temp-directory
// convention in internal/debug/debug.go (os.TempDir plus a tool-named
// sub-directory) and its internal/version package for ToolVersion; the
// cache itself is advisory, per spec.md §6 — the core must operate
// correctly whether it is present, absent, or stale.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/standardbeagle/fae/internal/debug"
	"github.com/standardbeagle/fae/internal/symbols"
	"github.com/standardbeagle/fae/internal/version"
)

// CurrentFormatVersion is bumped whenever CacheEntry's shape changes in a
// way that makes an older file unsafe to reuse.
const CurrentFormatVersion = 1

// CacheEntry is one file's persisted state, matching spec.md §6's
// {content-hash, last-modified, byte-size, symbols[]} record.
type CacheEntry struct {
	ContentHash  uint64           `json:"content_hash"`
	LastModified time.Time        `json:"last_modified"`
	ByteSize     int64            `json:"byte_size"`
	Symbols      []symbols.Record `json:"symbols"`
}

// CacheFile is the top-level persisted document, one per project root.
type CacheFile struct {
	FormatVersion int                   `json:"format_version"`
	CreatedAt     time.Time             `json:"created_at"`
	ToolVersion   string                `json:"tool_version"`
	Files         map[string]CacheEntry `json:"files"`
}

// PathFor returns the on-disk path for root's cache file, rooted under
// os.UserCacheDir()/fae the way the teacher roots debug logs under
// os.TempDir()/fae-debug-logs.
func PathFor(root string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve user cache dir: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	sum := sha256.Sum256([]byte(abs))
	name := hex.EncodeToString(sum[:]) + ".json"
	return filepath.Join(base, "fae", name), nil
}

// Load reads and validates root's cache file. Any read error, parse
// error, or format-version mismatch is treated identically: the caller
// gets (nil, err) and is expected to fall back to a full rebuild, never
// to treat a bad cache as fatal.
func Load(root string) (*CacheFile, error) {
	path, err := PathFor(root)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf CacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", path, err)
	}
	if cf.FormatVersion != CurrentFormatVersion {
		return nil, fmt.Errorf("cache: %s has format version %d, want %d", path, cf.FormatVersion, CurrentFormatVersion)
	}
	return &cf, nil
}

// Save writes cf for root, creating the cache directory if needed and
// writing via a temp-file-plus-rename so a crash mid-write never leaves
// a half-written file in the path Load reads from.
func Save(root string, cf *CacheFile) error {
	path, err := PathFor(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("cache: rename into place: %w", err)
	}
	return nil
}

// BuildFromIndex converts idx's current snapshot into a CacheFile ready
// to Save, storing entries under root-relative paths per spec.md §6.
func BuildFromIndex(root string, idx *symbols.Index) *CacheFile {
	snapshot := idx.Snapshot()
	files := make(map[string]CacheEntry, len(snapshot))
	for path, s := range snapshot {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		files[rel] = CacheEntry{
			ContentHash:  s.Hash,
			LastModified: s.ModTime,
			ByteSize:     s.Size,
			Symbols:      s.Symbols,
		}
	}
	return &CacheFile{
		FormatVersion: CurrentFormatVersion,
		CreatedAt:     time.Now(),
		ToolVersion:   version.Version,
		Files:         files,
	}
}

// RestoreToIndex seeds idx from cf, translating root-relative paths back
// to the absolute paths the Index keys entries by. Unknown or unreadable
// cf is the caller's responsibility to avoid calling this with; an empty
// cf is a harmless no-op.
func RestoreToIndex(root string, cf *CacheFile, idx *symbols.Index) {
	if cf == nil {
		return
	}
	snapshot := make(map[string]symbols.FileSnapshot, len(cf.Files))
	for rel, entry := range cf.Files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		snapshot[abs] = symbols.FileSnapshot{
			Hash:    entry.ContentHash,
			Size:    entry.ByteSize,
			ModTime: entry.LastModified,
			Symbols: entry.Symbols,
		}
	}
	idx.Restore(snapshot)
	debug.LogIndexing("cache: restored %d file entries for %s", len(snapshot), root)
}
