package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/logger"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

func newLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newLogger(t)

	lg.Debug("debug hidden")
	lg.Info("some message", "k", "v")
	lg.Warn("some warning")

	assert.Equal(t, "some message k=v\n! some warning\n", buf.String())

	buf.Reset()
	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("debug shown")
	assert.Contains(t, buf.String(), "debug shown")
}

func TestLogger_WithSharesOutput(t *testing.T) {
	lg, buf := newLogger(t)
	child := lg.With("account_id", "111")

	other := &bytes.Buffer{}
	lg.SetOutput(other)
	child.Info("resolved", "portfolio_id", "port-1")

	assert.Empty(t, buf.String())
	assert.Equal(t, "[111] resolved portfolio_id=port-1\n", other.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newLogger(t)

	err := zerr.With(zerr.Wrap(domain.ErrRemoteOperationFailed, "product copy failed"), "product", "widget")
	lg.Error(err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✗ Error: product copy failed"), out)
	assert.Contains(t, out, "product: widget")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, domain.ErrRemoteOperationFailed.Error())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newLogger(t)
	lg.SetJSON(true)

	lg.With("run_id", "r-1").Info("deploy started", "tasks", 3)
	lg.Error(errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "deploy started", rec["msg"])
	assert.Equal(t, "r-1", rec["run_id"])
	assert.InDelta(t, 3, rec["tasks"], 0)

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "boom", rec["error"])
}
