package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, parseLevel(" warning "))
	require.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, parseLevel(""))
	require.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestBuild_Envs(t *testing.T) {
	nop := build(Config{Env: "test"})
	require.False(t, nop.Core().Enabled(zapcore.ErrorLevel))

	prod := build(Config{Env: "prod", Level: "warn", ServiceName: "hellojane"})
	require.False(t, prod.Core().Enabled(zapcore.InfoLevel))
	require.True(t, prod.Core().Enabled(zapcore.WarnLevel))

	dev := build(Config{Env: "dev", Level: "debug"})
	require.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestFrom_ScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(RequestID("req-1"))

	ctx := ToContext(context.Background(), scoped)
	From(ctx).Info("hello", UserID("u1"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "hello", entry.Message)
	require.Equal(t, "req-1", entry.ContextMap()["request_id"])
	require.Equal(t, "u1", entry.ContextMap()["user_id"])
}

func TestFrom_FallsBackToSingleton(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	From(context.Background()).Info("fallback")
	From(nil).Info("nil ctx")

	require.Equal(t, 2, logs.Len())
}
