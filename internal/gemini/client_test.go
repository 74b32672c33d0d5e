package gemini

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestTimeout(t *testing.T) {
	ctx, cancel := withRequestTimeout(context.Background(), 30*time.Second)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)

	// zero timeout leaves the parent context untouched
	ctx, cancel = withRequestTimeout(context.Background(), 0)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, StopNormal, mapFinishReason(genai.FinishReasonStop))
	assert.Equal(t, StopMaxTokens, mapFinishReason(genai.FinishReasonMaxTokens))
	// anything else, including unspecified, is treated as blocked
	assert.Equal(t, StopBlocked, mapFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, StopBlocked, mapFinishReason(genai.FinishReasonUnspecified))
}
