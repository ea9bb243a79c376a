package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_DebugGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	l.Info("shown")
	l.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "debug line written with debug disabled")
	assert.Contains(t, out, "INFO shown")
	assert.Contains(t, out, "ERROR failed")

	buf.Reset()
	New(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "DEBUG visible")
}
