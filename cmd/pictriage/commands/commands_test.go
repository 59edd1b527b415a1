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

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"github.com/walteh/pictriage/pkg/config"
	"github.com/walteh/pictriage/pkg/log"
	"github.com/walteh/pictriage/pkg/tagstore"
)

type env struct {
	ctx     context.Context
	inbox   string
	library string
	out     *bytes.Buffer
	opts    *opts.RootOpts
}

func newEnv(t *testing.T, files ...string) *env {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	root := t.TempDir()
	e := &env{
		ctx:     ctx,
		inbox:   filepath.Join(root, "inbox"),
		library: filepath.Join(root, "library"),
		out:     &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(e.inbox, 0755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(e.inbox, f), []byte("content of "+f), 0644))
	}

	cfg, err := config.Default(e.library)
	require.NoError(t, err)
	o, err := opts.Open(ctx, cfg, log.NewUserLogger(ctx, e.out), log.NewWithZerolog(e.out, *zerolog.Ctx(ctx)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	e.opts = o
	return e
}

func (e *env) run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) error {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	return cmd.ExecuteContext(e.ctx)
}

func TestSortAndFinalize(t *testing.T) {
	e := newEnv(t, "a.jpg", "b.png", "c.jpg", "notes.txt")

	err := e.run(t, NewSortCmd(e.opts), "t Family\nd\nq\nf\nx\n", e.inbox)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(e.library, "Family", "a.jpg"))
	assert.FileExists(t, filepath.Join(e.library, "Family", "c.jpg"))
	assert.FileExists(t, filepath.Join(e.library, "Trash", "b.png"))
	assert.NoFileExists(t, filepath.Join(e.inbox, "a.jpg"))
	assert.FileExists(t, filepath.Join(e.inbox, "notes.txt"), "non-images are never listed")

	out := e.out.String()
	assert.Contains(t, out, "a.jpg tagged Family")
	assert.Contains(t, out, "b.png marked for trash")
	assert.Contains(t, out, "3 of 3 saved, 0 failed")
	assert.NotContains(t, out, "were not saved")

	cats, err := e.opts.Store.Categories(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Family"}, cats)
}

func TestSortRejectedIntentsKeepGoing(t *testing.T) {
	e := newEnv(t, "a.jpg", "b.jpg")

	err := e.run(t, NewSortCmd(e.opts), "u\nq\nt   \nbogus\nj 9\nd\nu\nt Pets\n", e.inbox)
	require.NoError(t, err)

	out := e.out.String()
	assert.Contains(t, out, "Nothing to undo")
	assert.Contains(t, out, "No category used yet")
	assert.Contains(t, out, "Category name is empty")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "No such item")
	assert.Contains(t, out, "a.jpg tagged Pets", "undo should return to the first item")
	assert.Contains(t, out, "1 decisions were not saved")

	assert.FileExists(t, filepath.Join(e.inbox, "a.jpg"), "nothing moves without finalize")
}

func TestSortExplainsSavedItems(t *testing.T) {
	e := newEnv(t, "a.jpg", "b.jpg")
	// a file where the category folder should go
	require.NoError(t, os.WriteFile(filepath.Join(e.library, "Family"), []byte("in the way"), 0644))

	err := e.run(t, NewSortCmd(e.opts), "w 1\nt Family\nd\nf\nw 1\nw 2\nw 3\n", e.inbox)
	require.NoError(t, err)

	out := e.out.String()
	assert.Contains(t, out, "a.jpg has not been saved yet")
	assert.Contains(t, out, "1 of 2 saved, 1 failed")
	assert.Contains(t, out, "❌ Could not write a.jpg")
	assert.Contains(t, out, "🗑️  Trashed b.jpg")
	assert.Contains(t, out, "No such item")

	assert.FileExists(t, filepath.Join(e.inbox, "a.jpg"), "a failed item stays where it was")
	assert.FileExists(t, filepath.Join(e.library, "Trash", "b.jpg"))
}

func TestSortCategoryNamedLikeTrash(t *testing.T) {
	e := newEnv(t, "keep.jpg", "gone.jpg")

	require.NoError(t, e.run(t, NewSortCmd(e.opts), "t Trash\nd\nf\n", e.inbox))
	assert.FileExists(t, filepath.Join(e.library, "_Trash", "keep.jpg"))
	assert.FileExists(t, filepath.Join(e.library, "Trash", "gone.jpg"))

	require.NoError(t, e.run(t, NewTrashCmd(e.opts), "", "empty"))
	assert.Contains(t, e.out.String(), "deleted 1 images")
	assert.FileExists(t, filepath.Join(e.library, "_Trash", "keep.jpg"), "emptying the trash keeps tagged files")

	folders, err := e.opts.Store.Folders(e.ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
	assert.Equal(t, "Trash", folders[0].Category)
	assert.Equal(t, 1, folders[0].Count)
}

func TestSortMissingFolder(t *testing.T) {
	e := newEnv(t)
	err := e.run(t, NewSortCmd(e.opts), "", filepath.Join(e.inbox, "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading folder")
}

func TestTrashRestore(t *testing.T) {
	e := newEnv(t, "a.jpg")
	require.NoError(t, e.run(t, NewSortCmd(e.opts), "d\nf\n", e.inbox))
	require.FileExists(t, filepath.Join(e.library, "Trash", "a.jpg"))

	require.NoError(t, e.run(t, NewTrashCmd(e.opts), "", "list"))
	assert.Contains(t, e.out.String(), filepath.Join(e.inbox, "a.jpg"))

	require.NoError(t, e.run(t, NewTrashCmd(e.opts), "", "restore", "a.jpg"))
	assert.FileExists(t, filepath.Join(e.inbox, "a.jpg"))
	assert.NoFileExists(t, filepath.Join(e.library, "Trash", "a.jpg"))

	err := e.run(t, NewTrashCmd(e.opts), "", "restore", "a.jpg")
	assert.Error(t, err, "restoring twice should fail")
}

func TestTrashEmpty(t *testing.T) {
	e := newEnv(t, "a.jpg", "b.jpg")
	require.NoError(t, e.run(t, NewSortCmd(e.opts), "d\nd\nf\n", e.inbox))

	require.NoError(t, e.run(t, NewTrashCmd(e.opts), "", "empty"))
	assert.Contains(t, e.out.String(), "deleted 2 images")
	assert.NoFileExists(t, filepath.Join(e.library, "Trash", "a.jpg"))
}

func TestTagsAndFolders(t *testing.T) {
	e := newEnv(t, "a.jpg", "b.jpg", "c.jpg")
	require.NoError(t, e.run(t, NewSortCmd(e.opts), "t Travel\nq\nt Family\nf\n", e.inbox))

	e.out.Reset()
	require.NoError(t, e.run(t, NewTagsCmd(e.opts), ""))
	assert.Contains(t, e.out.String(), "Family")
	assert.Contains(t, e.out.String(), "Travel")

	e.out.Reset()
	require.NoError(t, e.run(t, NewFoldersCmd(e.opts), ""))
	assert.Regexp(t, `Travel\s*\|?\s*2`, e.out.String())

	e.out.Reset()
	require.NoError(t, e.run(t, NewTagsCmd(e.opts), "", "Travel"))
	assert.Contains(t, e.out.String(), "a.jpg")
	assert.Contains(t, e.out.String(), "b.jpg")
	assert.Contains(t, e.out.String(), filepath.Join(e.inbox, "a.jpg"))
	assert.NotContains(t, e.out.String(), "c.jpg")

	// a file removed by hand drops out of its folder
	require.NoError(t, os.Remove(filepath.Join(e.library, "Travel", "b.jpg")))
	e.out.Reset()
	require.NoError(t, e.run(t, NewTagsCmd(e.opts), "", "Travel"))
	assert.NotContains(t, e.out.String(), "b.jpg")

	folders, err := e.opts.Store.Folders(e.ctx)
	require.NoError(t, err)
	assert.Contains(t, folders, tagstore.Folder{Category: "Travel", Count: 1})

	e.out.Reset()
	require.NoError(t, e.run(t, NewTagsCmd(e.opts), "", "Nature"))
	assert.Contains(t, e.out.String(), "No files in Nature")
}

func TestWatchNeedsFolder(t *testing.T) {
	e := newEnv(t)
	err := e.run(t, NewWatchCmd(e.opts), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no watch folder")
}
