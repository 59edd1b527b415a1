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

// Package trash manages files the relocation pipeline moved to the trash
// folder: listing them, putting them back where they came from, and deleting
// them for good.
package trash

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/storage"
	"github.com/walteh/pictriage/pkg/tagstore"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotInTrash      = errors.Base("not in trash")
	ErrUnknownOriginal = errors.Base("original location unknown")
	ErrRestoreConflict = errors.Base("a file already exists at the original location")
)

// Files is the file system side of the trash
type Files interface {
	Move(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, path string) error
	ListFiles(ctx context.Context, dir string) ([]storage.FileInfo, error)
}

// Ledger remembers where trashed files came from
type Ledger interface {
	TrashEntries(ctx context.Context) ([]tagstore.TrashEntry, error)
	TrashEntry(ctx context.Context, destination string) (tagstore.TrashEntry, error)
	DeleteTrashEntry(ctx context.Context, destination string) error
}

// 🗑️ Entry is one file in the trash
type Entry struct {
	Location  string
	Name      string
	Original  string // empty when the ledger has no record
	Size      int64
	TrashedAt time.Time
}

// 🧹 Manager operates on a single trash folder
type Manager struct {
	dir    string
	files  Files
	ledger Ledger
}

// 🏭 New creates a manager for dir
func New(dir string, files Files, ledger Ledger) *Manager {
	return &Manager{dir: filepath.Clean(dir), files: files, ledger: ledger}
}

// Dir returns the trash folder
func (m *Manager) Dir() string {
	return m.dir
}

// 📋 List returns the files present in the trash, newest first. Files the
// ledger does not know about are listed without an original location.
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	files, err := m.files.ListFiles(ctx, m.dir)
	if err != nil {
		return nil, errors.Errorf("listing trash: %w", err)
	}
	records, err := m.ledger.TrashEntries(ctx)
	if err != nil {
		return nil, errors.Errorf("reading trash ledger: %w", err)
	}

	byLocation := make(map[string]tagstore.TrashEntry, len(records))
	for _, r := range records {
		byLocation[filepath.Clean(r.Destination)] = r
	}

	out := make([]Entry, 0, len(files))
	for _, f := range files {
		e := Entry{
			Location:  f.Path,
			Name:      f.Name,
			Size:      f.Size,
			TrashedAt: time.Unix(f.ModTime, 0),
		}
		if r, ok := byLocation[filepath.Clean(f.Path)]; ok {
			e.Original = r.Original
			e.TrashedAt = r.TrashedAt
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TrashedAt.Equal(out[j].TrashedAt) {
			return out[i].TrashedAt.After(out[j].TrashedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ♻️ Restore moves a trashed file back to where it was before relocation
func (m *Manager) Restore(ctx context.Context, location string) (string, error) {
	location, err := m.resolve(location)
	if err != nil {
		return "", err
	}

	rec, err := m.ledger.TrashEntry(ctx, location)
	if errors.Is(err, tagstore.ErrNotFound) {
		return "", errors.Errorf("%w: %s", ErrUnknownOriginal, location)
	}
	if err != nil {
		return "", errors.Errorf("looking up %s: %w", location, err)
	}

	if _, err := os.Stat(rec.Original); err == nil {
		return "", errors.Errorf("%w: %s", ErrRestoreConflict, rec.Original)
	}

	if err := m.files.Move(ctx, location, rec.Original); err != nil {
		return "", errors.Errorf("restoring %s: %w", location, err)
	}
	if err := m.ledger.DeleteTrashEntry(ctx, location); err != nil {
		return "", errors.Errorf("forgetting %s: %w", location, err)
	}

	zerolog.Ctx(ctx).Debug().Str("location", location).Str("original", rec.Original).Msg("restored from trash")
	return rec.Original, nil
}

// 🔥 Purge deletes a trashed file permanently
func (m *Manager) Purge(ctx context.Context, location string) error {
	location, err := m.resolve(location)
	if err != nil {
		return err
	}
	if err := m.files.Remove(ctx, location); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("purging %s: %w", location, err)
	}
	if err := m.ledger.DeleteTrashEntry(ctx, location); err != nil {
		return errors.Errorf("forgetting %s: %w", location, err)
	}
	zerolog.Ctx(ctx).Debug().Str("location", location).Msg("purged from trash")
	return nil
}

// Empty purges every file in the trash and returns how many were removed
func (m *Manager) Empty(ctx context.Context) (int, error) {
	entries, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if err := m.Purge(ctx, e.Location); err != nil {
			return n, err
		}
		n++
	}

	// drop ledger rows whose files vanished
	records, err := m.ledger.TrashEntries(ctx)
	if err != nil {
		return n, errors.Errorf("reading trash ledger: %w", err)
	}
	for _, r := range records {
		if err := m.ledger.DeleteTrashEntry(ctx, r.Destination); err != nil {
			return n, errors.Errorf("forgetting %s: %w", r.Destination, err)
		}
	}
	return n, nil
}

// resolve accepts a path relative to the trash folder or an absolute one
// inside it
func (m *Manager) resolve(location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", errors.Errorf("%w: empty location", ErrNotInTrash)
	}
	if !filepath.IsAbs(location) {
		location = filepath.Join(m.dir, location)
	}
	location = filepath.Clean(location)
	if filepath.Dir(location) != m.dir {
		return "", errors.Errorf("%w: %s", ErrNotInTrash, location)
	}
	return location, nil
}
