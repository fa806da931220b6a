package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("warn", "production")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = New("", "development")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", "development")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "所見の", Truncate("所見の", 3))
	assert.Equal(t, "所見...", Truncate("所見の生成", 2))
}
