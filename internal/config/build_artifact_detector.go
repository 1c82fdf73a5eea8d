// Build artifact detection: fae reads a handful of well-known project
// manifests and excludes whatever output directory they declare, so
// generated code never shows up in Content, Regex, File, or Symbol mode
// results without the user hand-listing it in Exclude.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector inspects projectRoot's manifests for declared
// build-output directories.
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// manifestProbe reads one manifest file format and pulls out the single
// output directory it declares, if any.
type manifestProbe struct {
	file    string
	decode  func([]byte, interface{}) error
	extract func(map[string]interface{}) (string, bool)
}

var manifestProbes = []manifestProbe{
	{"tsconfig.json", json.Unmarshal, func(doc map[string]interface{}) (string, bool) {
		return digString(doc, "compilerOptions", "outDir")
	}},
	{"package.json", json.Unmarshal, func(doc map[string]interface{}) (string, bool) {
		return digString(doc, "build", "outDir")
	}},
	{"Cargo.toml", toml.Unmarshal, func(doc map[string]interface{}) (string, bool) {
		return digString(doc, "profile", "release", "target-dir")
	}},
	{"pyproject.toml", toml.Unmarshal, func(doc map[string]interface{}) (string, bool) {
		return digString(doc, "tool", "poetry", "build", "target-dir")
	}},
}

// DetectOutputDirectories scans projectRoot's manifests and returns a
// doublestar exclusion pattern for every declared output directory found.
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string
	for _, probe := range manifestProbes {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, probe.file))
		if err != nil {
			continue
		}
		var doc map[string]interface{}
		if probe.decode(data, &doc) != nil {
			continue
		}
		if dir, ok := probe.extract(doc); ok && dir != "" {
			patterns = append(patterns, "**/"+dir+"/**")
		}
	}
	return patterns
}

// digString walks a chain of nested map[string]interface{} keys, returning
// the string found at the final key if every intermediate step is itself
// a map. Used to reach into manifest shapes like
// {"compilerOptions": {"outDir": "lib"}} without a chain of type
// assertions per call site.
func digString(doc map[string]interface{}, keys ...string) (string, bool) {
	cur := doc
	for i, key := range keys {
		v, ok := cur[key]
		if !ok {
			return "", false
		}
		if i == len(keys)-1 {
			s, ok := v.(string)
			return s, ok
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}

// DeduplicatePatterns removes duplicate exclusion patterns, preserving
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}
	return result
}
