package config

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReload(t *testing.T) {
	path := writeFile(t, "config.toml", "[editor]\ntab_width = 4\n")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c },
		WithDebounce(20*time.Millisecond),
		WithLoader(NewLoader(noEnv())),
	)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[editor]\ntab_width = 6\n"), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 6, cfg.Editor.TabWidth)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsErrors(t *testing.T) {
	path := writeFile(t, "config.toml", "")

	errs := make(chan error, 4)
	w, err := NewWatcher(path, func(*Config) {},
		WithDebounce(20*time.Millisecond),
		WithLoader(NewLoader(noEnv())),
		WithErrorHandler(func(err error) { errs <- err }),
	)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[editor]\ntab_width = 0\n"), 0o644))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrValidationFailed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "config.toml", "")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c },
		WithDebounce(10*time.Millisecond),
		WithLoader(NewLoader(noEnv())),
	)
	require.NoError(t, err)
	defer w.Close()

	other := filepath.Join(filepath.Dir(path), "other.toml")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeFile(t, "config.toml", "")

	w, err := NewWatcher(path, func(*Config) {})
	require.NoError(t, err)

	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, w.Path())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	path := writeFile(t, "config.toml", "")

	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	w, err := NewWatcher(path, func(*Config) {
		once.Do(func() { close(started) })
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	},
		WithDebounce(10*time.Millisecond),
		WithLoader(NewLoader(noEnv())),
	)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	require.NoError(t, w.Close())
	assert.True(t, finished.Load(), "onChange still running after Close returned")
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), func(*Config) {})
	assert.Error(t, err)
}
