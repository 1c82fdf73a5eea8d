package symbols

import (
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/fae/internal/debug"
)

// entry is one file's current extraction result, keyed by content hash so
// a retried or out-of-order Update on stale content is a cheap no-op
// rather than a re-extraction.
type entry struct {
	hash    uint64
	size    int64
	modTime time.Time
	symbols []Record
}

// Index maintains current Symbol Records for a tree. Writers take an
// exclusive lock only for the duration of swapping a single file's entry;
// readers clone the outer map under a read lock and then iterate it
// lock-free, matching the teacher's master_index.go discipline of
// per-file fine-grained writes against whole-map snapshot reads.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*entry
	extract *Extractor
}

// NewIndex creates an empty index backed by a fresh Extractor.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*entry),
		extract: NewExtractor(),
	}
}

// FileSource yields candidate files to index, abstracting over the
// walker so tests can populate an Index without a real filesystem walk.
type FileSource interface {
	Walk() func(yield func(string) bool)
}

// Build walks source, extracting each eligible file concurrently via an
// errgroup and populating the index. Per-file I/O or parse failures are
// logged and skipped; they never fail the build.
func (idx *Index) Build(source FileSource) error {
	var g errgroup.Group
	g.SetLimit(16)

	for path := range source.Walk() {
		path := path
		g.Go(func() error {
			idx.updateFromDisk(path)
			return nil
		})
	}
	return g.Wait()
}

// Update re-extracts a single file. If its content hash matches the
// existing entry, this is a no-op — the guarantee spec.md asks for under
// concurrent, possibly out-of-order completions.
func (idx *Index) Update(path string, content []byte) {
	hash := xxhash.Sum64(content)

	idx.mu.RLock()
	existing, ok := idx.entries[path]
	idx.mu.RUnlock()
	if ok && existing.hash == hash {
		return
	}

	records := idx.extract.Extract(path, content)
	next := &entry{
		hash:    hash,
		size:    int64(len(content)),
		modTime: time.Now(),
		symbols: records,
	}

	idx.mu.Lock()
	if current, ok := idx.entries[path]; ok && current.hash == hash {
		idx.mu.Unlock()
		return
	}
	idx.entries[path] = next
	idx.mu.Unlock()
}

func (idx *Index) updateFromDisk(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		debug.LogIndexing("symbols: cannot read %s: %v", path, err)
		return
	}
	idx.Update(path, content)
}

// Remove drops path's entry entirely.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	delete(idx.entries, path)
	idx.mu.Unlock()
}

// All returns a snapshot of every Symbol Record currently indexed.
// Records of one file keep their extraction order; files follow Go map
// iteration order, so the order across files is not defined and is not
// the order in which files were discovered.
func (idx *Index) All() []Record {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Record
	for _, e := range idx.entries {
		out = append(out, e.symbols...)
	}
	return out
}

// Len reports how many files currently have an entry.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// FileSnapshot is one file's indexed state, exported for persistence by
// package cache: the content hash lets a restored entry satisfy Update's
// no-op-on-unchanged-content check without re-extracting.
type FileSnapshot struct {
	Hash    uint64
	Size    int64
	ModTime time.Time
	Symbols []Record
}

// Snapshot returns every indexed file's current state, for writing to a
// persisted cache.
func (idx *Index) Snapshot() map[string]FileSnapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]FileSnapshot, len(idx.entries))
	for path, e := range idx.entries {
		out[path] = FileSnapshot{Hash: e.hash, Size: e.size, ModTime: e.modTime, Symbols: e.symbols}
	}
	return out
}

// Restore seeds the index directly from a previously saved snapshot,
// bypassing extraction entirely. A subsequent Update for an unchanged
// file is then a hash-match no-op, per spec's cache-backed incremental
// rebuild requirement.
func (idx *Index) Restore(snapshot map[string]FileSnapshot) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for path, s := range snapshot {
		idx.entries[path] = &entry{hash: s.Hash, size: s.Size, modTime: s.ModTime, symbols: s.Symbols}
	}
}
