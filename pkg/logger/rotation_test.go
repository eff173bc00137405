package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestNewRotationWriter(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "relay.log")

	tests := []struct {
		name     string
		config   *RotationConfig
		wantSize bool
	}{
		{
			name:     "size rotation",
			config:   &RotationConfig{Type: RotationBySize, MaxSize: 10, MaxBackups: 2, MaxAge: 1},
			wantSize: true,
		},
		{
			name:   "time rotation",
			config: &RotationConfig{Type: RotationByTime, RotationTime: "1h", MaxAgeTime: "24h", RotationPattern: ".%Y%m%d%H"},
		},
		{
			name:   "time rotation with bad durations falls back",
			config: &RotationConfig{Type: RotationByTime, RotationTime: "soon", MaxAgeTime: "later"},
		},
		{
			name:     "empty type defaults to size",
			config:   &RotationConfig{},
			wantSize: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewRotationWriter(tt.config, outputPath)
			require.NoError(t, err)
			require.NotNil(t, w)

			_, isSize := w.(*lumberjack.Logger)
			assert.Equal(t, tt.wantSize, isSize)
		})
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "relay.log")

	l, err := New(&Config{
		Format:     JSONFormat,
		EnableFile: true,
		OutputPath: outputPath,
	})
	require.NoError(t, err)

	l.Info("file output")
	require.NoError(t, l.Sync())
	assert.FileExists(t, outputPath)
}
