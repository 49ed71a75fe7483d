package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-99")
	assert.Equal(t, "req-99", GetRequestID(ctx))
}

func TestGetRequestIDAbsent(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetRequestIDWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, 123)
	assert.Empty(t, GetRequestID(ctx))
}

func TestWithRequestIDTagsLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithRequestID(context.Background(), zap.New(core), "req-7")
	log.Info("watermark advanced")

	assert.Equal(t, "req-7", GetRequestID(ctx))

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}
