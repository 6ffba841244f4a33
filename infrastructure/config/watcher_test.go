package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestWatcher(t *testing.T, initial string) (*Watcher, zap.AtomicLevel, string) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfigFile(t, path, initial)

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	watcher, err := NewWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	return watcher, level, path
}

func TestWatcher_Reload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     string
		want    zap.AtomicLevel
		wantErr bool
	}{
		{name: "applies file level", content: "log_level: debug\n", want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{name: "environment wins", content: "log_level: debug\n", env: "warn", want: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{name: "invalid level", content: "log_level: loud\n", want: zap.NewAtomicLevelAt(zap.InfoLevel), wantErr: true},
		{name: "invalid yaml", content: "log_level: [\n", want: zap.NewAtomicLevelAt(zap.InfoLevel), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			watcher, level, path := newTestWatcher(t, "log_level: info\n")
			writeConfigFile(t, path, tt.content)
			if tt.env != "" {
				t.Setenv("LOG_LEVEL", tt.env)
			}

			err := watcher.Reload()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want.Level(), level.Level())
		})
	}
}

func TestWatcher_AppliesFileChanges(t *testing.T) {
	watcher, level, path := newTestWatcher(t, "log_level: info\n")
	watcher.Start()

	writeConfigFile(t, path, "log_level: debug\n")

	assert.Eventually(t, func() bool {
		return level.Level() == zap.DebugLevel
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	watcher, _, _ := newTestWatcher(t, "log_level: info\n")

	assert.NoError(t, watcher.Stop())
	// A second Stop is a no-op
	assert.NoError(t, watcher.Stop())
}

func TestNewWatcher_MissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"), zap.NewAtomicLevel(), zap.NewNop())

	assert.Error(t, err)
}
