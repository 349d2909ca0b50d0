package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud", false))
}

func TestHelpersWriteToGlobal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Warn("gas estimation failed", zap.String("method", "transfer"))
	Named("tracker").Info("state changed")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "gas estimation failed", entries[0].Message)
	assert.Equal(t, "transfer", entries[0].ContextMap()["method"])
	assert.Equal(t, "tracker", entries[1].LoggerName)
}
