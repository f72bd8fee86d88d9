package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
	}{
		{name: "default config logs warnings", cfg: DefaultConfig(), wantLevel: zapcore.WarnLevel},
		{name: "debug json logger", cfg: Config{Debug: true, Format: FormatJSON}, wantLevel: zapcore.DebugLevel},
		{name: "empty format is human", cfg: Config{}, wantLevel: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.wantLevel))
			assert.False(t, l.Core().Enabled(tt.wantLevel-1))
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.ErrorContains(t, err, "unsupported log format")
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shelllink.log")

	l, err := New(Config{Debug: true, Format: FormatJSON, File: path})
	require.NoError(t, err)
	l.Debug("decoded link")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "decoded link")
}
