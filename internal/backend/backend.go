// Package backend selects and drives the external-or-builtin line scanner
// used by the Content and Regex search strategies: ripgrep, then ag, then
// a built-in scanner that is always available.
package backend

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/standardbeagle/fae/internal/debug"
)

// Kind identifies which scanner a Selector resolved to.
type Kind int

const (
	Ripgrep Kind = iota
	Ag
	Builtin
)

func (k Kind) String() string {
	switch k {
	case Ripgrep:
		return "ripgrep"
	case Ag:
		return "ag"
	default:
		return "builtin"
	}
}

// Hit is one line-granular match reported by a scanner.
type Hit struct {
	Path string
	Line int
	Col  int
	Text string
	Len  int // byte length of the actual matched text, not the query pattern's length
}

// Scanner performs a literal-or-regex search over root, calling yield for
// every match until it returns false or the context is cancelled.
type Scanner interface {
	Kind() Kind
	Search(ctx context.Context, root, pattern string, regex bool, yield func(Hit) bool) error
}

// Selector picks one Scanner from an ordered preference list. It holds
// no cached result: every Resolve call probes PATH again. cmd/fae calls
// Resolve once at start-up and keeps the returned Scanner.
type Selector struct {
	preference []Kind
	walkerOpts WalkerOptions
}

// WalkerOptions are the knobs the built-in scanner needs from the File
// Walker to honor the same ignore/size-cap semantics external tools are
// asked to honor via CLI flags.
type WalkerOptions struct {
	MaxFileBytes int64
}

// NewSelector builds a Selector honoring an ordered preference list (see
// spec's `backend.preference` config knob); an empty list falls back to
// the default order [ripgrep, ag, builtin].
func NewSelector(preference []Kind, walkerOpts WalkerOptions) *Selector {
	if len(preference) == 0 {
		preference = []Kind{Ripgrep, Ag, Builtin}
	}
	return &Selector{preference: preference, walkerOpts: walkerOpts}
}

// Resolve picks the first available scanner in preference order. Builtin
// is always available and terminates the search regardless of position.
func (s *Selector) Resolve() Scanner {
	for _, kind := range s.preference {
		switch kind {
		case Ripgrep:
			if path, err := exec.LookPath("rg"); err == nil {
				debug.LogSearch("backend: resolved ripgrep at %s", path)
				return &externalScanner{kind: Ripgrep, bin: path, build: ripgrepArgs}
			}
		case Ag:
			if path, err := exec.LookPath("ag"); err == nil {
				debug.LogSearch("backend: resolved ag at %s", path)
				return &externalScanner{kind: Ag, bin: path, build: agArgs}
			}
		case Builtin:
			debug.LogSearch("backend: resolved builtin scanner")
			return &builtinScanner{maxFileBytes: s.walkerOpts.MaxFileBytes}
		}
	}
	debug.LogSearch("backend: no preferred scanner available, falling back to builtin")
	return &builtinScanner{maxFileBytes: s.walkerOpts.MaxFileBytes}
}

func ripgrepArgs(root, pattern string, regex bool) []string {
	args := []string{"--line-number", "--column", "--no-heading", "--color=never"}
	if !regex {
		args = append(args, "--fixed-strings")
	}
	return append(args, "--", pattern, root)
}

func agArgs(root, pattern string, regex bool) []string {
	args := []string{"--line-number", "--column", "--nogroup", "--noheading", "--color", "never"}
	if !regex {
		args = append(args, "--literal")
	}
	return append(args, "--", pattern, root)
}

// externalScanner drives an external tool's subprocess as a streaming
// line source, killing it on cancellation, matching the teacher's
// exec.CommandContext + pipe idiom in internal/git/provider.go.
type externalScanner struct {
	kind  Kind
	bin   string
	build func(root, pattern string, regex bool) []string
}

func (e *externalScanner) Kind() Kind { return e.kind }

func (e *externalScanner) Search(ctx context.Context, root, pattern string, regex bool, yield func(Hit) bool) error {
	cmd := exec.CommandContext(ctx, e.bin, e.build(root, pattern, regex)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	var re *regexp.Regexp
	if regex {
		// Already validated by RegexStrategy.Prepare; a compile failure
		// here just falls back to len(pattern) in matchLength.
		re, _ = regexp.Compile(pattern)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		hit, ok := parseHitLine(scanner.Text())
		if !ok {
			debug.LogSearch("backend: %s: skipping malformed line", e.kind)
			continue
		}
		hit.Len = matchLength(hit, pattern, re)
		if !yield(hit) {
			_ = cmd.Process.Kill()
			break
		}
	}
	_ = cmd.Wait()
	return nil
}

// matchLength recovers the true byte length of the match rg/ag reported
// only the start column for. Literal mode is exactly len(pattern); regex
// mode re-runs the compiled pattern against the reported text starting at
// the reported column, since the source pattern's length and the length
// of what it actually matched can differ arbitrarily ("[a-z]+" is 6 bytes
// long but its match never is).
func matchLength(hit Hit, pattern string, re *regexp.Regexp) int {
	if re == nil {
		return len(pattern)
	}
	start := hit.Col - 1
	if start < 0 || start > len(hit.Text) {
		return len(pattern)
	}
	if loc := re.FindStringIndex(hit.Text[start:]); loc != nil && loc[0] == 0 {
		return loc[1]
	}
	return len(pattern)
}

// parseHitLine parses "path:line:col:text", the common rg/ag
// --no-heading output shape, splitting at the first three colons. The
// path is taken to end at the first ':', so a path that itself contains
// ':' is rejected as malformed or split in the wrong place.
func parseHitLine(line string) (Hit, bool) {
	first := strings.IndexByte(line, ':')
	if first < 0 {
		return Hit{}, false
	}
	second := strings.IndexByte(line[first+1:], ':')
	if second < 0 {
		return Hit{}, false
	}
	second += first + 1
	third := strings.IndexByte(line[second+1:], ':')
	if third < 0 {
		return Hit{}, false
	}
	third += second + 1

	lineNum, err := strconv.Atoi(line[first+1 : second])
	if err != nil {
		return Hit{}, false
	}
	col, err := strconv.Atoi(line[second+1 : third])
	if err != nil {
		return Hit{}, false
	}

	return Hit{
		Path: line[:first],
		Line: lineNum,
		Col:  col,
		Text: line[third+1:],
	}, true
}
