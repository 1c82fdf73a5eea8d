package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func findRecord(records []Record, name string, kind Kind) (Record, bool) {
	for _, r := range records {
		if r.Name == name && r.Kind == kind {
			return r, true
		}
	}
	return Record{}, false
}

func TestExtract_Go(t *testing.T) {
	src := []byte(`package main

func widgetNew() int {
	return 1
}

type Widget struct{}
`)
	e := NewExtractor()
	records := e.Extract("widget.go", src)

	fn, ok := findRecord(records, "widgetNew", Function)
	assert.True(t, ok, "expected widgetNew function symbol, got %+v", records)
	assert.Equal(t, 3, fn.Line)

	ty, ok := findRecord(records, "Widget", Type)
	assert.True(t, ok, "expected Widget type symbol, got %+v", records)
	assert.Equal(t, 7, ty.Line)
}

func TestExtract_Rust(t *testing.T) {
	src := []byte("fn widget_new() {}\n")
	e := NewExtractor()
	records := e.Extract("src/a.rs", src)

	fn, ok := findRecord(records, "widget_new", Function)
	assert.True(t, ok, "expected widget_new function symbol, got %+v", records)
	assert.Equal(t, 1, fn.Line)
	assert.Equal(t, 4, fn.Col)
}

func TestExtract_UnknownExtensionYieldsEmpty(t *testing.T) {
	e := NewExtractor()
	records := e.Extract("notes.txt", []byte("whatever"))
	assert.Empty(t, records)
}

func TestExtract_Deterministic(t *testing.T) {
	src := []byte(`package main

func a() {}
func b() {}
`)
	e := NewExtractor()
	first := e.Extract("x.go", src)
	second := e.Extract("x.go", src)
	assert.Equal(t, first, second)
}

func TestExtract_MalformedInputDoesNotPanic(t *testing.T) {
	src := []byte(`package main

func broken( {
`)
	e := NewExtractor()
	assert.NotPanics(t, func() {
		e.Extract("broken.go", src)
	})
}
