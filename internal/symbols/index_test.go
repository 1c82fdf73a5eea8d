package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource []string

func (s sliceSource) Walk() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for _, p := range s {
			if !yield(p) {
				return
			}
		}
	}
}

func writeGoFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(full, []byte(body), 0644))
	return full
}

func TestIndex_BuildAndAll(t *testing.T) {
	dir := t.TempDir()
	a := writeGoFile(t, dir, "a.go", "package main\nfunc fnA() {}\n")
	b := writeGoFile(t, dir, "b.go", "package main\nfunc fnB() {}\n")

	idx := NewIndex()
	require.NoError(t, idx.Build(sliceSource{a, b}))

	records := idx.All()
	_, okA := findRecord(records, "fnA", Function)
	_, okB := findRecord(records, "fnB", Function)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_BuildTwiceIsStable(t *testing.T) {
	dir := t.TempDir()
	a := writeGoFile(t, dir, "a.go", "package main\nfunc fnA() {}\nfunc fnC() {}\n")

	idx := NewIndex()
	require.NoError(t, idx.Build(sliceSource{a}))
	first := idx.All()

	idx2 := NewIndex()
	require.NoError(t, idx2.Build(sliceSource{a}))
	second := idx2.All()

	assert.ElementsMatch(t, first, second)
}

func TestIndex_UpdateNoOpsOnUnchangedContent(t *testing.T) {
	idx := NewIndex()
	content := []byte("package main\nfunc fnA() {}\n")

	idx.Update("a.go", content)
	before := idx.All()

	idx.Update("a.go", content)
	after := idx.All()

	assert.Equal(t, before, after)
}

func TestIndex_UpdateReplacesOnContentChange(t *testing.T) {
	idx := NewIndex()
	idx.Update("a.go", []byte("package main\nfunc fnA() {}\n"))
	idx.Update("a.go", []byte("package main\nfunc fnB() {}\n"))

	records := idx.All()
	_, okOld := findRecord(records, "fnA", Function)
	_, okNew := findRecord(records, "fnB", Function)
	assert.False(t, okOld)
	assert.True(t, okNew)
}

func TestIndex_Remove(t *testing.T) {
	idx := NewIndex()
	idx.Update("a.go", []byte("package main\nfunc fnA() {}\n"))
	assert.Equal(t, 1, idx.Len())

	idx.Remove("a.go")
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.All())
}

func TestIndex_ConcurrentUpdatesSameFile(t *testing.T) {
	idx := NewIndex()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			idx.Update("a.go", []byte("package main\nfunc fnA() {}\n"))
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 1, idx.Len())
}
