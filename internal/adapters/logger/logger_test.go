package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.loomci.dev/loom/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_SetOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Info("expanding matrix")
	log.Warn("workspace cleanup failed")
	log.Error(zerr.New("step failed"))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "expanding matrix")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "step failed")
}
