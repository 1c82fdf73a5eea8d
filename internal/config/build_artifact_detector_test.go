package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOutputDirectories_TypeScriptOutDir(t *testing.T) {
	dir := t.TempDir()
	tsconfig := `{"compilerOptions": {"outDir": "lib"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(tsconfig), 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Contains(t, patterns, "**/lib/**")
}

func TestDetectOutputDirectories_CargoTargetDir(t *testing.T) {
	dir := t.TempDir()
	cargo := "[profile.release]\ntarget-dir = \"out\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(cargo), 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Contains(t, patterns, "**/out/**")
}

func TestDetectOutputDirectories_NoConfigFiles(t *testing.T) {
	dir := t.TempDir()

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	assert.Empty(t, patterns)
}

func TestDeduplicatePatterns(t *testing.T) {
	in := []string{"**/dist/**", "**/dist/**", "**/build/**"}
	out := DeduplicatePatterns(in)
	assert.Len(t, out, 2)
}

func TestEnrichExclusionsWithBuildArtifacts(t *testing.T) {
	dir := t.TempDir()
	pkgJSON := `{"build": {"outDir": "compiled"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkgJSON), 0644))

	cfg := Default(dir)
	cfg.EnrichExclusionsWithBuildArtifacts()

	assert.Contains(t, cfg.Exclude, "**/compiled/**")
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}
