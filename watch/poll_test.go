package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerRebuildsOncePerChange(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(fn, []byte("a"), 0644))

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &Poller{Path: fn, Interval: 10 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, func(context.Context) { rebuilds.Add(1) }) }()

	// unchanged file: no rebuilds across several polls
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), rebuilds.Load())

	// bump the mtime forward; exactly one rebuild per observed increase
	st, err := os.Stat(fn)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(fn, time.Now(), st.ModTime().Add(2*time.Second)))

	require.Eventually(t, func() bool { return rebuilds.Load() == 1 },
		time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), rebuilds.Load(), "no rebuilds while the timestamp is stable")

	cancel()
	require.NoError(t, <-done)
}

func TestPollerMissingFile(t *testing.T) {
	p := &Poller{Path: filepath.Join(t.TempDir(), "gone.tex"), Interval: 10 * time.Millisecond}
	err := p.Watch(context.Background(), func(context.Context) {})
	assert.Error(t, err)
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(fn, []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{Path: fn, Interval: 10 * time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, func(context.Context) {}) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
