// Package walker lazily enumerates candidate files under a project root,
// honoring ignore rules (nested ignore files, hidden-file policy) and
// filters (binary extensions, size cap). It is shared by every search
// mode: Content and Regex feed it to the builtin backend, File ranks its
// output directly, and Symbol feeds it to the extractor during a build.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/fae/internal/config"
	"github.com/standardbeagle/fae/internal/debug"
)

// Options mirrors the knobs enumerated in the configuration contract.
type Options struct {
	RespectIgnore   bool
	RespectHidden   bool
	IgnoreFilenames []string
	MaxFileBytes    int64
	Include         []string
	Exclude         []string
}

// OptionsFromConfig adapts a loaded config.Config into walker Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RespectIgnore:   cfg.Index.RespectIgnore,
		RespectHidden:   cfg.Index.RespectHidden,
		IgnoreFilenames: cfg.IgnoreFiles,
		MaxFileBytes:    cfg.Index.MaxFileBytes,
		Include:         cfg.Include,
		Exclude:         cfg.Exclude,
	}
}

// Walker enumerates files under Root subject to Options.
type Walker struct {
	Root   string
	Opts   Options
	binary *BinaryDetector
}

const (
	binaryPreCheckThreshold = 8192
	binaryPreCheckBytes     = 512
)

// New builds a Walker rooted at root.
func New(root string, opts Options) *Walker {
	return &Walker{Root: root, Opts: opts, binary: NewBinaryDetector()}
}

// Walk returns a range-over-func iterator of absolute file paths.
// Directory pruning (`.git`, ignored directories) happens eagerly, before
// descent, never as a post-hoc filter. Per-entry walking errors are
// logged and skipped; they never abort the walk.
func (w *Walker) Walk() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		w.walkDir(w.Root, nil, yield)
	}
}

// walkDir descends dir, carrying the stack of ignore parsers loaded by
// every ancestor directory (root first), so a nested ignore file only
// affects the subtree below it. Returns false once the consumer asked
// to stop.
func (w *Walker) walkDir(dir string, parents []*config.IgnoreParser, yield func(string) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.LogIndexing("walker: cannot read dir %s: %v", dir, err)
		return true
	}

	stack := parents
	if w.Opts.RespectIgnore {
		stack = append(append([]*config.IgnoreParser{}, parents...), w.loadIgnoreFile(dir))
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" {
			continue
		}
		if w.Opts.RespectHidden && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		rel := w.relPath(full)

		if w.Opts.RespectIgnore && w.ignoredByStack(stack, rel, entry.IsDir()) {
			continue
		}

		if entry.IsDir() {
			if w.matchesExclude(rel + "/") {
				continue
			}
			if !w.walkDir(full, stack, yield) {
				return false
			}
			continue
		}

		if !w.acceptFile(full, rel, entry) {
			continue
		}
		if !yield(full) {
			return false
		}
	}
	return true
}

func (w *Walker) relPath(full string) string {
	rel, err := filepath.Rel(w.Root, full)
	if err != nil {
		rel = full
	}
	return filepath.ToSlash(rel)
}

func (w *Walker) loadIgnoreFile(dir string) *config.IgnoreParser {
	p := config.NewIgnoreParser()
	_ = p.LoadIgnoreFile(dir, ".gitignore")
	for _, name := range w.Opts.IgnoreFilenames {
		if name == ".gitignore" {
			continue
		}
		_ = p.LoadIgnoreFile(dir, name)
	}
	return p
}

// ignoredByStack evaluates every ancestor's ignore file against a path
// relative to that ancestor, deepest-first, the way ripgrep/ag honor
// nested .gitignore files. stack[i] was loaded from the directory i
// levels below the root, so dropping the first i segments of the
// root-relative path gives the path relative to that directory. A path
// is ignored as soon as any level ignores it.
func (w *Walker) ignoredByStack(stack []*config.IgnoreParser, rel string, isDir bool) bool {
	segments := strings.Split(rel, "/")
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].IsEmpty() || i >= len(segments) {
			continue
		}
		if stack[i].ShouldIgnore(strings.Join(segments[i:], "/"), isDir) {
			return true
		}
	}
	return false
}

func (w *Walker) matchesExclude(rel string) bool {
	for _, pattern := range w.Opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) matchesInclude(rel string) bool {
	if len(w.Opts.Include) == 0 {
		return true
	}
	for _, pattern := range w.Opts.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) acceptFile(full, rel string, entry fs.DirEntry) bool {
	if w.binary.IsBinaryByExtension(full) {
		return false
	}
	if !w.matchesInclude(rel) || w.matchesExclude(rel) {
		return false
	}

	info, err := entry.Info()
	if err != nil {
		debug.LogIndexing("walker: stat failed for %s: %v", full, err)
		return false
	}
	if w.Opts.MaxFileBytes > 0 && info.Size() > w.Opts.MaxFileBytes {
		return false
	}

	if info.Size() > binaryPreCheckThreshold {
		if w.preCheckBinary(full) {
			return false
		}
	}

	return true
}

func (w *Walker) preCheckBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, binaryPreCheckBytes)
	n, _ := f.Read(buf)
	return w.binary.IsBinaryByMagicNumber(buf[:n])
}
