package searchcore

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/standardbeagle/fae/internal/backend"
	"github.com/standardbeagle/fae/internal/fuzzy"
	"github.com/standardbeagle/fae/internal/symbols"
	"github.com/standardbeagle/fae/internal/walker"
)

// Strategy is the uniform contract every search mode implements. Prepare
// runs eagerly, before any result is produced, so a fatal precondition
// (a malformed regex, an unresolvable backend) can be reported as a
// single search.error instead of surfacing mid-stream. Run is only
// called when Prepare returns a nil error; it returns a lazy, cancellation-
// aware sequence of Match records.
type Strategy interface {
	Prepare(cleaned string) (kind ErrorKind, err error)
	Run(cleaned string, handle *CancelHandle) func(yield func(Match) bool)
}

// checkInterval bounds how many records a strategy produces between
// cancellation checks — spec.md requires at least once per file, once
// per N lines where N ≤ 1024.
const checkInterval = 256

// ContentStrategy performs literal substring search via the selected
// backend. Score is constant; ordering is discovery order, per spec.md
// §4.4.
type ContentStrategy struct {
	Scanner backend.Scanner
	Root    string
}

func (s *ContentStrategy) Prepare(string) (ErrorKind, error) { return Internal, nil }

func (s *ContentStrategy) Run(cleaned string, handle *CancelHandle) func(yield func(Match) bool) {
	return runBackend(s.Scanner, s.Root, cleaned, false, handle)
}

// RegexStrategy shares Content's shape; Prepare validates the pattern
// once so a compile failure produces exactly one search.error and zero
// matches, matching spec.md scenario D.
type RegexStrategy struct {
	Scanner backend.Scanner
	Root    string
}

func (s *RegexStrategy) Prepare(cleaned string) (ErrorKind, error) {
	if _, err := regexp.Compile(cleaned); err != nil {
		return RegexCompile, err
	}
	return Internal, nil
}

func (s *RegexStrategy) Run(cleaned string, handle *CancelHandle) func(yield func(Match) bool) {
	return runBackend(s.Scanner, s.Root, cleaned, true, handle)
}

func runBackend(scanner backend.Scanner, root, pattern string, regex bool, handle *CancelHandle) func(yield func(Match) bool) {
	kind := MatchContent
	if regex {
		kind = MatchRegexKind
	}
	return func(yield func(Match) bool) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-handle.Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		count := 0
		_ = scanner.Search(ctx, root, pattern, regex, func(hit backend.Hit) bool {
			if handle.Cancelled() {
				return false
			}
			count++
			if count%checkInterval == 0 && handle.Cancelled() {
				return false
			}
			match := Match{
				Kind:  kind,
				Path:  hit.Path,
				Line:  hit.Line,
				Col:   hit.Col,
				Score: 1.0,
				Content: &ContentMatch{
					LineText:  hit.Text,
					StartByte: hit.Col - 1,
					EndByte:   hit.Col - 1 + hit.Len,
				},
			}
			return yield(match)
		})
	}
}

// FileStrategy fuzzy-matches the Walker's path sequence.
type FileStrategy struct {
	Walker    *walker.Walker
	Root      string
	Threshold float64
}

func (s *FileStrategy) Prepare(string) (ErrorKind, error) { return Internal, nil }

func (s *FileStrategy) Run(cleaned string, handle *CancelHandle) func(yield func(Match) bool) {
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = fuzzy.DefaultThreshold
	}

	return func(yield func(Match) bool) {
		type candidate struct {
			rel   string
			score float64
		}
		var matched []candidate

		count := 0
		for abs := range s.Walker.Walk() {
			if handle.Cancelled() {
				return
			}
			count++
			if count%checkInterval == 0 && handle.Cancelled() {
				return
			}
			rel, err := filepath.Rel(s.Root, abs)
			if err != nil {
				rel = abs
			}
			rel = filepath.ToSlash(rel)
			score, ok := fuzzy.Score(cleaned, rel)
			if !ok || score < threshold {
				continue
			}
			matched = append(matched, candidate{rel: rel, score: score})
		}

		sort.Slice(matched, func(i, j int) bool {
			if matched[i].score != matched[j].score {
				return matched[i].score > matched[j].score
			}
			return matched[i].rel < matched[j].rel
		})

		for _, c := range matched {
			if handle.Cancelled() {
				return
			}
			m := Match{
				Kind:  MatchFile,
				Path:  filepath.Join(s.Root, c.rel),
				Line:  1,
				Col:   1,
				Score: c.score,
				File:  &FileMatch{RelPath: c.rel},
			}
			if !yield(m) {
				return
			}
		}
	}
}

// SymbolStrategy fuzzy-matches identifier names in the Symbol Index. If
// the index hasn't been built yet, it triggers a build and still emits
// whatever symbols are already present — spec.md leaves the
// stale-vs-block choice open and recommends streaming stale results,
// which this satisfies trivially: an empty, not-yet-built index just
// produces zero matches immediately rather than blocking the strategy.
type SymbolStrategy struct {
	Index     *symbols.Index
	Source    symbols.FileSource
	Threshold float64
}

func (s *SymbolStrategy) Prepare(string) (ErrorKind, error) { return Internal, nil }

func (s *SymbolStrategy) Run(cleaned string, handle *CancelHandle) func(yield func(Match) bool) {
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = fuzzy.DefaultThreshold
	}

	if s.Index.Len() == 0 && s.Source != nil {
		go s.Index.Build(s.Source)
	}

	return func(yield func(Match) bool) {
		records := s.Index.All()

		type candidate struct {
			record symbols.Record
			score  float64
		}
		var matched []candidate
		for i, r := range records {
			if handle.Cancelled() {
				return
			}
			if i%checkInterval == 0 && handle.Cancelled() {
				return
			}
			score, ok := fuzzy.Score(cleaned, r.Name)
			if !ok || score < threshold {
				continue
			}
			matched = append(matched, candidate{record: r, score: score})
		}

		sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })

		scored := make([]fuzzy.Scored, len(matched))
		for i, c := range matched {
			scored[i] = fuzzy.Scored{Text: c.record.Name, Score: c.score}
		}
		reranked := fuzzy.BreakTies(cleaned, scored)

		byName := make(map[string][]candidate)
		for _, c := range matched {
			byName[c.record.Name] = append(byName[c.record.Name], c)
		}

		for _, rr := range reranked {
			bucket := byName[rr.Text]
			if len(bucket) == 0 {
				continue
			}
			c := bucket[0]
			byName[rr.Text] = bucket[1:]

			if handle.Cancelled() {
				return
			}
			m := Match{
				Kind:  MatchSymbol,
				Path:  c.record.Path,
				Line:  c.record.Line,
				Col:   c.record.Col,
				Score: c.score,
				Symbol: &SymbolMatch{
					Name: c.record.Name,
					Kind: c.record.Kind.String(),
				},
			}
			if !yield(m) {
				return
			}
		}
	}
}
