package symbols

import (
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// compiledLanguage is a ready-to-use grammar: a parser language plus its
// compiled query, shared (read-only, safe for concurrent use) by every
// Extract call for the extensions it covers.
type compiledLanguage struct {
	language *tree_sitter.Language
	query    *tree_sitter.Query
}

// Extractor dispatches source text to a per-language tree-sitter grammar
// and returns the identifiers it captures. It holds no per-file state, so
// a single Extractor is shared and called concurrently by Index.Build.
type Extractor struct {
	byExt map[string]*compiledLanguage
}

// NewExtractor compiles every known grammar's query once.
func NewExtractor() *Extractor {
	e := &Extractor{byExt: make(map[string]*compiledLanguage)}
	for _, spec := range languageTable() {
		lang := spec.language()
		query, _ := tree_sitter.NewQuery(lang, spec.query)
		// go-tree-sitter sometimes returns a typed-nil error on success;
		// the query pointer is the reliable success signal.
		if query == nil {
			continue
		}
		compiled := &compiledLanguage{language: lang, query: query}
		for _, ext := range spec.extensions {
			e.byExt[ext] = compiled
		}
	}
	return e
}

// parserPool avoids allocating a fresh tree_sitter.Parser for every call;
// Parser instances are not safe for concurrent use, so the pool hands out
// exclusive ownership per Extract call.
var parserPool = sync.Pool{
	New: func() any { return tree_sitter.NewParser() },
}

// Extract returns every Symbol Record findable in content, dispatching on
// path's extension. An unknown extension yields an empty, non-error
// result. A malformed parse still yields whatever the partial tree
// exposes; tree-sitter's error-recovery nodes are simply skipped by
// queries that don't match them, so no special-casing is needed here.
func (e *Extractor) Extract(path string, content []byte) []Record {
	ext := strings.ToLower(filepath.Ext(path))
	compiled, ok := e.byExt[ext]
	if !ok {
		return nil
	}

	parser := parserPool.Get().(*tree_sitter.Parser)
	defer parserPool.Put(parser)

	if err := parser.SetLanguage(compiled.language); err != nil {
		return nil
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(compiled.query, root, content)
	names := compiled.query.CaptureNames()

	var records []Record
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			name := names[capture.Index]
			prefix, isName := strings.CutSuffix(name, ".name")
			if !isName {
				continue
			}
			kind, known := kindByPrefix[prefix]
			if !known {
				continue
			}
			point := capture.Node.StartPosition()
			start, end := int(capture.Node.StartByte()), int(capture.Node.EndByte())
			if end > len(content) || start > end || start < 0 {
				continue
			}
			records = append(records, Record{
				Name: string(content[start:end]),
				Kind: kind,
				Path: path,
				Line: int(point.Row) + 1,
				Col:  int(point.Column) + 1,
			})
		}
	}
	return records
}
