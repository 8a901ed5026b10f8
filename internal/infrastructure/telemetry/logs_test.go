package telemetry

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerProvider_DisabledBridgeIsIdentity(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	base := zap.NewExample()
	assert.Same(t, base, lp.Bridge(base))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_BridgeKeepsBaseOutput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	lp := &LoggerProvider{
		provider: sdklog.NewLoggerProvider(),
		logger:   zap.NewNop(),
		config:   config.TelemetryConfig{ServiceName: "storefront-test"},
	}

	log := lp.Bridge(zap.New(core))
	log.Debug("dropped")
	log.Info("order placed", zap.String("number", "ORD-1"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "order placed", logs.All()[0].Message)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, level: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	log := zap.New(core).With(zap.String("vendor", "acme"))
	log.Info("skipped")
	log.Warn("kept")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "acme", logs.All()[0].ContextMap()["vendor"])
}
