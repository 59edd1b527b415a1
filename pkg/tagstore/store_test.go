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

package tagstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "tags.db"))
	require.NoError(t, err, "opening store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCategoriesAndFolders(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.RecordTag(ctx, "/lib/Travel/a.jpg", "Travel", "/in/a.jpg"))
	require.NoError(t, s.RecordTag(ctx, "/lib/Family/b.jpg", "Family", "/in/b.jpg"))
	require.NoError(t, s.RecordTag(ctx, "/lib/Family/c.jpg", "Family", "/in/c.jpg"))

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Family", "Travel"}, cats, "categories should be distinct and sorted")

	folders, err := s.Folders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Folder{{Category: "Family", Count: 2}, {Category: "Travel", Count: 1}}, folders)

	tags, err := s.Tags(ctx, "Family")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "/lib/Family/c.jpg", tags[0].Destination, "newest first")
	assert.Equal(t, "/in/c.jpg", tags[0].Original)
}

func TestRecordTagReplacesDestination(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.RecordTag(ctx, "/lib/Family/a.jpg", "Family", "/in/one/a.jpg"))
	require.NoError(t, s.RecordTag(ctx, "/lib/Family/a.jpg", "Family", "/in/two/a.jpg"))

	tags, err := s.Tags(ctx, "Family")
	require.NoError(t, err)
	require.Len(t, tags, 1, "same destination should be one record")
	assert.Equal(t, "/in/two/a.jpg", tags[0].Original)

	require.NoError(t, s.DeleteTag(ctx, "/lib/Family/a.jpg"))
	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestMovedFileLeavesItsFolder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.RecordTag(ctx, "/lib/Family/a.jpg", "Family", "/in/a.jpg"))
	require.NoError(t, s.RecordTag(ctx, "/lib/Family/b.jpg", "Family", "/in/b.jpg"))

	// sorting the Family folder again moves a.jpg on and trashes b.jpg
	require.NoError(t, s.RecordTag(ctx, "/lib/Travel/a.jpg", "Travel", "/lib/Family/a.jpg"))
	require.NoError(t, s.RecordTrash(ctx, "/lib/Trash/b.jpg", "/lib/Family/b.jpg"))

	folders, err := s.Folders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Folder{{Category: "Travel", Count: 1}}, folders)

	// tagging a file where it already is keeps its record
	require.NoError(t, s.RecordTag(ctx, "/lib/Travel/a.jpg", "Travel", "/lib/Travel/a.jpg"))
	tags, err := s.Tags(ctx, "Travel")
	require.NoError(t, err)
	require.Len(t, tags, 1)
}

func TestTrashLedger(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.RecordTrash(ctx, "/lib/Trash/a.jpg", "/in/a.jpg"))
	require.NoError(t, s.RecordTrash(ctx, "/lib/Trash/b.jpg", "/in/b.jpg"))

	entries, err := s.TrashEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/lib/Trash/b.jpg", entries[0].Destination)

	e, err := s.TrashEntry(ctx, "/lib/Trash/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/in/a.jpg", e.Original)
	assert.True(t, fixed.Equal(e.TrashedAt), "trashed_at should round trip, got %s", e.TrashedAt)

	require.NoError(t, s.DeleteTrashEntry(ctx, "/lib/Trash/a.jpg"))
	_, err = s.TrashEntry(ctx, "/lib/Trash/a.jpg")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := filepath.Join("/lib/Family", string(rune('a'+i))+".jpg")
			assert.NoError(t, s.RecordTag(ctx, dst, "Family", "/in/x.jpg"))
		}()
	}
	wg.Wait()

	folders, err := s.Folders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Folder{{Category: "Family", Count: 20}}, folders)
}
