package searchcore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CollapsesRapidKeystrokes(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	d := NewDebouncer(30*time.Millisecond, func(q string) {
		mu.Lock()
		fired = append(fired, q)
		mu.Unlock()
	})

	for _, ch := range []string{"h", "he", "hel", "hell", "hello"} {
		d.Input(ch)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"hello"}, fired)
}

func TestDebouncer_ZeroIntervalFiresImmediately(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	d := NewDebouncer(0, func(q string) {
		mu.Lock()
		fired = append(fired, q)
		mu.Unlock()
	})

	d.Input("a")
	d.Input("b")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, fired)
}

func TestDebouncer_StopCancelsPendingFire(t *testing.T) {
	fired := false
	d := NewDebouncer(20*time.Millisecond, func(string) { fired = true })

	d.Input("x")
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired)
}
