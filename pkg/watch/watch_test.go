// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pictriage/pkg/item"
)

type collector struct {
	mu    sync.Mutex
	items []item.ID
}

func (c *collector) found(_ context.Context, id item.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, id)
}

func (c *collector) snapshot() []item.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]item.ID(nil), c.items...)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Dir: t.TempDir(), Patterns: []string{"[broken"}})
	require.Error(t, err)

	_, err = New(Options{Dir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestRunReportsScreenshots(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()))
	defer cancel()

	w, err := New(Options{Dir: dir, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	c := &collector{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, c.found) }()

	shot := filepath.Join(dir, "Screenshot 2025-03-01 at 10.00.00.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".Screenshot-temp.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(shot, []byte("part"), 0644))
	require.NoError(t, os.WriteFile(shot, []byte("partial then complete"), 0644))

	require.Eventually(t, func() bool { return len(c.snapshot()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []item.ID{item.ID(shot)}, c.snapshot(), "repeated writes should be reported once")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunSkipsRemovedFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := New(Options{Dir: dir, Debounce: 200 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	c := &collector{}
	go func() { _ = w.Run(ctx, c.found) }()

	gone := filepath.Join(dir, "screenshot-gone.png")
	kept := filepath.Join(dir, "screenshot-kept.png")
	require.NoError(t, os.WriteFile(gone, []byte("x"), 0644))
	require.NoError(t, os.Remove(gone))
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0644))

	require.Eventually(t, func() bool { return len(c.snapshot()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, []item.ID{item.ID(kept)}, c.snapshot())
}

func TestRunIgnoresEditsToOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "screenshot-old.png")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := New(Options{Dir: dir, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	c := &collector{}
	go func() { _ = w.Run(ctx, c.found) }()

	f, err := os.OpenFile(old, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("edited")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	fresh := filepath.Join(dir, "screenshot-new.png")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	require.Eventually(t, func() bool { return len(c.snapshot()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []item.ID{item.ID(fresh)}, c.snapshot())
}
