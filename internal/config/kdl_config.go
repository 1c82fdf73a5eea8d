package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .fae.kdl file at the
// project root. A missing file is not an error: nil, nil is returned so
// the caller falls back to Default.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".fae.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .fae.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Project.Root != "" {
		var absRoot string
		if filepath.IsAbs(cfg.Project.Root) {
			absRoot = cfg.Project.Root
		} else {
			absRoot = filepath.Join(projectRoot, cfg.Project.Root)
		}
		cfg.Project.Root = filepath.Clean(absRoot)
	} else if absRoot, err := filepath.Abs(projectRoot); err == nil {
		cfg.Project.Root = absRoot
	} else {
		cfg.Project.Root = projectRoot
	}

	return cfg, nil
}

// parseKDL parses a .fae.kdl document into a Config. The Index and Search
// sections start from the compiled-in defaults, so a knob the file doesn't
// set keeps its default; the remaining sections are left at their zero
// value and mergeConfigs falls back to the base config for them.
func parseKDL(content string) (*Config, error) {
	defaults := Default(".")
	cfg := &Config{Version: 1, Index: defaults.Index, Search: defaults.Search}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileBytes = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Index.MaxFileBytes = sz
						}
					}
				case "respect_ignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.RespectIgnore = b
					}
				case "respect_hidden":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.RespectHidden = b
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.FollowSymlinks = b
					}
				case "parallel_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.ParallelWorkers = v
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.DebounceMs = v
					}
				case "fuzzy_threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Search.FuzzyThreshold = v
					}
				case "results_max":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.ResultsMax = v
					}
				}
			}
		case "backend":
			for _, cn := range n.Children {
				if nodeName(cn) == "preference" {
					cfg.Backend.Preference = collectStringArgs(cn)
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		case "ignore_files":
			cfg.IgnoreFiles = append(cfg.IgnoreFiles, collectStringArgs(n)...)
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid numeric value for %q in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

// collectStringArgs handles both inline ("exclude \"a\" \"b\"") and block
// ("exclude { a; b; }") KDL forms.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}

	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
