package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.in)
		require.NoError(t, err)
		assert.Truef(t, logger.Core().Enabled(tt.want), "level %q should enable %v", tt.in, tt.want)
		if tt.want > zapcore.DebugLevel {
			assert.Falsef(t, logger.Core().Enabled(tt.want-1), "level %q should disable %v", tt.in, tt.want-1)
		}
	}
}

func TestPrintfAdapter_WritesInfoWithoutTrailingNewline(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := NewPrintfAdapter(zap.New(core))

	adapter.Printf("OK   %s (%d)\n", "00001_init.sql", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "OK   00001_init.sql (3)", entries[0].Message)
}

func TestPrintfAdapter_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { NewPrintfAdapter(nil).Printf("ignored") })
}
