package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalQuiet := QuietMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		QuietMode = originalQuiet
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetQuietMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetQuietMode(true)
	assert.True(t, QuietMode)

	SetQuietMode(false)
	assert.False(t, QuietMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	QuietMode = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	QuietMode = false
	assert.True(t, IsDebugEnabled())

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())
}

func TestLogf(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = false
	Logf("TEST", "Hello %s", "World")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG:TEST]")
	assert.Contains(t, output, "Hello World")
}

func TestLogf_QuietMode(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = true
	Logf("TEST", "Should not appear")

	assert.Empty(t, buf.String())
}

func TestLogSearchAndIndexing(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = false

	LogSearch("searching for %s", "pattern")
	assert.Contains(t, buf.String(), "[DEBUG:SEARCH]")
	assert.Contains(t, buf.String(), "searching for pattern")

	buf.Reset()
	LogIndexing("indexing %d files", 3)
	assert.Contains(t, buf.String(), "[DEBUG:INDEX]")
	assert.Contains(t, buf.String(), "indexing 3 files")
}

func TestFatal(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	err := Fatal("test error: %s", "details")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fatal error: test error: details")
	assert.Contains(t, buf.String(), "[FATAL]")

	buf.Reset()
	QuietMode = true
	err = Fatal("another error")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fatal error: another error")
	assert.Empty(t, buf.String())
}

func TestCatastrophicError(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	CatastrophicError("system failure: %s", "disk full")

	output := buf.String()
	assert.Contains(t, output, "[CATASTROPHIC]")
	assert.Contains(t, output, "system failure: disk full")
}

func TestCatastrophicError_QuietMode(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = true
	CatastrophicError("should not appear")

	assert.Empty(t, buf.String())
}

func TestConcurrentLogging(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = false

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			Logf("CONCURRENT", "Message from goroutine %d", id)
			LogSearch("Search from goroutine %d", id)
			LogIndexing("Index from goroutine %d", id)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.True(t, true)
}

func TestNoOutputWithNilWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetDebugOutput(nil)
	EnableDebug = "true"
	QuietMode = false

	Printf("test %s", "message")
	Println("test message")
	Logf("TEST", "test %s", "message")
	LogSearch("test %s", "message")
	LogIndexing("test %s", "message")
	Fatal("test %s", "message")
	CatastrophicError("test %s", "message")
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	logPath, err := InitDebugLogFile()
	assert.NoError(t, err)
	assert.NotEmpty(t, logPath)

	_, err = os.Stat(logPath)
	assert.NoError(t, err)

	EnableDebug = "true"
	QuietMode = false
	Printf("Test log message\n")

	err = CloseDebugLog()
	assert.NoError(t, err)

	content, err := os.ReadFile(logPath)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "Test log message")

	os.Remove(logPath)
}
