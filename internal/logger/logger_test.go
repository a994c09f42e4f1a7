package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseGating(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden too")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debug("shown %d", 2)
	Info("also shown")
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
	assert.Contains(t, buf.String(), "[INFO] also shown")
}

func TestWarnAlwaysPrints(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
	})

	SetVerbose(false)
	Warn("careful: %s", "x")
	Error("broken: %s", "y")
	assert.Contains(t, buf.String(), "[WARN] careful: x")
	assert.Contains(t, buf.String(), "[ERROR] broken: y")
}
