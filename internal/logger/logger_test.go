package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_IsNop(t *testing.T) {
	l := New()
	require.NotNil(t, l.Log)
	assert.False(t, l.Log.Core().Enabled(zapcore.ErrorLevel))
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		level     string
		enabled   zapcore.Level
		disabled  zapcore.Level
		wantError bool
	}{
		{level: "debug", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{level: "Info", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{level: " WARN ", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{level: "loud", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New()
			err := l.Init(tt.level)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Log.Core().Enabled(tt.enabled))
			assert.False(t, l.Log.Core().Enabled(tt.disabled))
		})
	}
}
