package backend

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/standardbeagle/fae/internal/debug"
	"github.com/standardbeagle/fae/internal/walker"
)

// builtinScanner walks the tree itself and scans each file's content line
// by line. It never loads a file larger than maxFileBytes, matching the
// File Walker's own size cap so the two stay consistent regardless of
// which one is asked to enforce it.
type builtinScanner struct {
	maxFileBytes int64
}

func (b *builtinScanner) Kind() Kind { return Builtin }

func (b *builtinScanner) Search(ctx context.Context, root, pattern string, regex bool, yield func(Hit) bool) error {
	var re *regexp.Regexp
	if regex {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return err
		}
		re = compiled
	}

	opts := walker.Options{
		RespectIgnore: true,
		RespectHidden: true,
		MaxFileBytes:  b.maxFileBytes,
	}
	w := walker.New(root, opts)

	for path := range w.Walk() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !b.scanFile(ctx, path, pattern, re, yield) {
			return nil
		}
	}
	return nil
}

func (b *builtinScanner) scanFile(ctx context.Context, path, pattern string, re *regexp.Regexp, yield func(Hit) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		debug.LogSearch("builtin: cannot open %s: %v", path, err)
		return true
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum%1024 == 0 {
			select {
			case <-ctx.Done():
				return false
			default:
			}
		}
		line := scanner.Text()

		col := -1
		matchLen := 0
		if re != nil {
			if loc := re.FindStringIndex(line); loc != nil {
				col = loc[0]
				matchLen = loc[1] - loc[0]
			}
		} else if idx := strings.Index(line, pattern); idx >= 0 {
			col = idx
			matchLen = len(pattern)
		}
		if col < 0 {
			continue
		}

		if !yield(Hit{Path: path, Line: lineNum, Col: col + 1, Text: line, Len: matchLen}) {
			return false
		}
	}
	return true
}
