package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreParser parses and matches one ignore file's worth of gitignore-style
// patterns. The Walker keeps one per directory level it has descended
// through, so a nested ignore file only affects the subtree below it.
// Matching itself is delegated to doublestar, the same glob engine the
// Walker already uses for Include/Exclude, rather than a second hand-rolled
// pattern matcher.
type IgnoreParser struct {
	rules []ignoreRule
}

// ignoreRule is one parsed ignore-file line: a glob plus the modifiers
// gitignore attaches to it.
type ignoreRule struct {
	glob      string
	negate    bool
	directory bool
	anchored  bool
}

// NewIgnoreParser creates an empty parser.
func NewIgnoreParser() *IgnoreParser {
	return &IgnoreParser{}
}

// LoadIgnoreFile loads patterns from filename inside dir (e.g. ".gitignore"
// or a name from config.IgnoreFiles). A missing file is not an error.
func (p *IgnoreParser) LoadIgnoreFile(dir, filename string) error {
	file, err := os.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		p.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern adds a single pattern line directly, for tests and for
// exclusions carried over from Config.Exclude. Blank lines and comments
// are silently ignored, matching gitignore's own file syntax.
func (p *IgnoreParser) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	p.rules = append(p.rules, parseIgnoreRule(line))
}

// IsEmpty reports whether any pattern was loaded.
func (p *IgnoreParser) IsEmpty() bool {
	return len(p.rules) == 0
}

func parseIgnoreRule(line string) ignoreRule {
	var r ignoreRule
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}
	r.glob = line
	return r
}

// ShouldIgnore reports whether path (relative to the directory this parser
// was loaded from, forward-slash separated) is ignored by this level's
// patterns. Later patterns win over earlier ones, and a negated pattern
// un-ignores a path an earlier pattern matched, matching gitignore's own
// last-match-wins precedence.
func (p *IgnoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for _, r := range p.rules {
		if r.matches(path, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r ignoreRule) matches(path string, isDir bool) bool {
	if r.directory && r.matchesAnyAncestorDir(path, isDir) {
		return true
	}
	if r.directory && !isDir {
		// A directory-only pattern can still ignore a file, but only as
		// a descendant of a matched directory (handled above); it never
		// matches the file's own name.
		return false
	}
	if r.anchored {
		return globMatch(r.glob, path)
	}
	return matchAnyDepth(r.glob, path)
}

// matchesAnyAncestorDir reports whether any directory component along
// path's chain matches this directory-only pattern, so a file nested
// inside a matched directory is ignored along with the directory itself.
// The last component counts only when path itself is a directory.
func (r ignoreRule) matchesAnyAncestorDir(path string, isDir bool) bool {
	segments := strings.Split(path, "/")
	last := len(segments)
	if !isDir {
		last--
	}
	for end := 1; end <= last; end++ {
		dir := strings.Join(segments[:end], "/")
		if r.anchored {
			if globMatch(r.glob, dir) {
				return true
			}
			continue
		}
		if matchAnyDepth(r.glob, dir) {
			return true
		}
	}
	return false
}

// matchAnyDepth mirrors gitignore's rule that a pattern without a slash
// matches at any directory depth: try the full path, then every suffix
// obtained by dropping leading path segments. A pattern that itself
// contains a slash is always anchored to the directory it's rooted at.
func matchAnyDepth(pattern, path string) bool {
	if globMatch(pattern, path) {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if globMatch(pattern, strings.Join(segments[i:], "/")) {
			return true
		}
	}
	return false
}

func globMatch(pattern, path string) bool {
	ok, _ := doublestar.Match(pattern, path)
	return ok
}
