package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, fn Func) {
	t.Helper()
	w, err := New(path, 50*time.Millisecond, fn, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(path, []byte("# header\n"), 0644))

	calls := make(chan string, 10)
	startWatcher(t, path, func(_ context.Context, p string) error {
		calls <- p
		return nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("1 2 3 4\n"), 0644))
	}

	select {
	case p := <-calls:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(2 * time.Second):
		t.Fatal("callback not called")
	}

	select {
	case <-calls:
		t.Fatal("burst should produce a single callback")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	var n atomic.Int32
	startWatcher(t, path, func(context.Context, string) error {
		n.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
}

func TestWatcher_SeesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	calls := make(chan struct{}, 10)
	startWatcher(t, path, func(context.Context, string) error {
		calls <- struct{}{}
		return nil
	})

	tmp := filepath.Join(dir, "table.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("1 2 3 4\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not called after rename")
	}
}

func TestWatcher_ContinuesAfterCallbackError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	var n atomic.Int32
	calls := make(chan struct{}, 10)
	startWatcher(t, path, func(context.Context, string) error {
		calls <- struct{}{}
		if n.Add(1) == 1 {
			return errors.New("column index out of range")
		}
		return nil
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(path, []byte("1 2 3 4\n"), 0644))
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("callback %d not called", i+1)
		}
	}
	assert.Equal(t, int32(2), n.Load())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "table.txt"), 0, nil, nil)
	require.Error(t, err)
}
