package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := execRunner{logger: logger}

	out, _, err := r.Run(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
	assert.Contains(t, buf.String(), "ocr.exec.ok")

	buf.Reset()
	_, _, err = r.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "ocr.exec.failed")
}

func TestExecRunnerIsDefaultRunner(t *testing.T) {
	e := newExtractor(Config{}, nil, slog.Default())
	_, ok := e.runner.(execRunner)
	assert.True(t, ok)
}

func TestClipStderr(t *testing.T) {
	long := strings.Repeat("x", 9<<10)
	clipped := clipStderr(long)
	assert.Len(t, clipped, (8<<10)+len("...(truncated)"))
	assert.Equal(t, "short", clipStderr("short"))
}
