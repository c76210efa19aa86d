package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "chatty", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewZapLogger(t *testing.T) {
	logger := NewZapLogger("pictorial", zapcore.DebugLevel, false)
	assert.NotNil(t, logger)
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	prod := NewZapLogger("pictorial", zapcore.WarnLevel, true)
	assert.False(t, prod.Desugar().Core().Enabled(zapcore.InfoLevel))
}
