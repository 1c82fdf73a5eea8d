// Command fae is the thin CLI driver: it wires configuration, the File
// Walker, the backend Selector, the Symbol Index and its persisted
// cache, and the searchcore Coordinator together, then pumps one query
// per stdin line through the debouncer and prints every envelope the
// Coordinator publishes as a JSON line on stdout. Rendering, key
// bindings, and color themes are a collaborator's concern, per spec.md;
// this binary is the plumbing a terminal UI or a script would sit on
// top of. Modeled on the teacher's cmd/lci/main.go: an urfave/cli App
// whose single Action loads configuration, wires the shared components
// and runs the read loop, with signal-driven graceful shutdown.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/fae/internal/backend"
	"github.com/standardbeagle/fae/internal/cache"
	"github.com/standardbeagle/fae/internal/config"
	"github.com/standardbeagle/fae/internal/debug"
	"github.com/standardbeagle/fae/internal/searchcore"
	"github.com/standardbeagle/fae/internal/symbols"
	"github.com/standardbeagle/fae/internal/version"
	"github.com/standardbeagle/fae/internal/walker"
	"github.com/standardbeagle/fae/pkg/pathutil"
)

func main() {
	app := &cli.App{
		Name:                   "fae",
		Usage:                  "interactive multi-modal code search core",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root to search (defaults to the current directory)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "include only files matching this glob (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "exclude files matching this glob (repeatable)",
			},
			&cli.IntFlag{
				Name:  "debounce-ms",
				Usage: "quiet interval before a query is dispatched",
				Value: config.DefaultDebounceMs,
			},
			&cli.Int64Flag{
				Name:  "max-file-bytes",
				Usage: "skip files larger than this many bytes",
				Value: config.DefaultMaxFileBytes,
			},
			&cli.Float64Flag{
				Name:  "fuzzy-threshold",
				Usage: "minimum fuzzy score for File and Symbol mode matches",
				Value: config.DefaultFuzzyThreshold,
			},
			&cli.IntFlag{
				Name:  "results-max",
				Usage: "cap on matches printed per query",
				Value: config.DefaultResultsMax,
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "backend preference order, comma-separated: ripgrep,ag,builtin",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "fae:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("root"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, c)

	root := cfg.Project.Root
	w := walker.New(root, walker.OptionsFromConfig(cfg))

	selector := backend.NewSelector(parsePreference(cfg.Backend.Preference), backend.WalkerOptions{
		MaxFileBytes: cfg.Index.MaxFileBytes,
	})
	scanner := selector.Resolve()
	debug.LogSearch("fae: resolved backend %s", scanner.Kind())

	idx := symbols.NewIndex()
	if cf, err := cache.Load(root); err == nil {
		cache.RestoreToIndex(root, cf, idx)
	} else {
		debug.LogIndexing("fae: no usable cache for %s: %v", root, err)
	}

	bus := searchcore.NewBus()
	inbox := bus.Register("sink", 4096)

	modes := map[searchcore.Mode]searchcore.Strategy{
		searchcore.ModeContent: &searchcore.ContentStrategy{Scanner: scanner, Root: root},
		searchcore.ModeRegex:   &searchcore.RegexStrategy{Scanner: scanner, Root: root},
		searchcore.ModeFile:    &searchcore.FileStrategy{Walker: w, Root: root, Threshold: cfg.Search.FuzzyThreshold},
		searchcore.ModeSymbol:  &searchcore.SymbolStrategy{Index: idx, Source: w, Threshold: cfg.Search.FuzzyThreshold},
	}
	coord := searchcore.NewCoordinator(bus, "sink", modes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	printerDone := make(chan struct{})
	resultsMax := cfg.Search.ResultsMax
	go func() {
		defer close(printerDone)
		printEnvelopes(ctx, inbox, root, resultsMax)
	}()

	debouncer := searchcore.NewDebouncer(time.Duration(cfg.Search.DebounceMs)*time.Millisecond, func(query string) {
		coord.Submit(query)
	})
	defer debouncer.Stop()

	readStdin(ctx, debouncer)

	cancel()
	<-printerDone

	if cf := cache.BuildFromIndex(root, idx); cf != nil {
		if err := cache.Save(root, cf); err != nil {
			debug.LogIndexing("fae: failed to persist cache: %v", err)
		}
	}
	return nil
}

func applyOverrides(cfg *config.Config, c *cli.Context) {
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if c.IsSet("debounce-ms") {
		cfg.Search.DebounceMs = c.Int("debounce-ms")
	}
	if c.IsSet("max-file-bytes") {
		cfg.Index.MaxFileBytes = c.Int64("max-file-bytes")
	}
	if c.IsSet("fuzzy-threshold") {
		cfg.Search.FuzzyThreshold = c.Float64("fuzzy-threshold")
	}
	if c.IsSet("results-max") {
		cfg.Search.ResultsMax = c.Int("results-max")
	}
	if pref := c.String("backend"); pref != "" {
		cfg.Backend.Preference = strings.Split(pref, ",")
	}
}

func parsePreference(names []string) []backend.Kind {
	kinds := make([]backend.Kind, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ripgrep", "rg":
			kinds = append(kinds, backend.Ripgrep)
		case "ag", "silversearcher":
			kinds = append(kinds, backend.Ag)
		case "builtin":
			kinds = append(kinds, backend.Builtin)
		}
	}
	return kinds
}

// readStdin feeds one query per line into the debouncer until EOF or ctx
// is cancelled.
func readStdin(ctx context.Context, debouncer *searchcore.Debouncer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			debouncer.Input(line)
		}
	}
}

// wireEnvelope is the JSON-line shape printed for every Bus envelope.
type wireEnvelope struct {
	Method        string            `json:"method"`
	CorrelationID int               `json:"id"`
	Match         *searchcore.Match `json:"match,omitempty"`
	ErrorKind     string            `json:"error_kind,omitempty"`
}

func printEnvelopes(ctx context.Context, inbox <-chan searchcore.Envelope, root string, resultsMax int) {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	perQuery := make(map[int]int)
	enc := json.NewEncoder(out)

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-inbox:
			if !ok {
				return
			}
			w := wireEnvelope{Method: env.Method, CorrelationID: env.CorrelationID}
			switch env.Method {
			case searchcore.MethodResultsClear:
				perQuery[env.CorrelationID] = 0
			case searchcore.MethodResultsMatch:
				if resultsMax > 0 && perQuery[env.CorrelationID] >= resultsMax {
					continue
				}
				perQuery[env.CorrelationID]++
				if m, ok := env.Payload.(searchcore.Match); ok {
					m.Path = pathutil.ToRelative(m.Path, root)
					w.Match = &m
				}
			case searchcore.MethodSearchError:
				if kind, ok := env.Payload.(searchcore.ErrorKind); ok {
					w.ErrorKind = kind.String()
				}
			}
			_ = enc.Encode(w)
			out.Flush()
		}
	}
}
