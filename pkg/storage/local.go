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

// Package storage implements the relocation storage collaborator on the local
// filesystem. Item identifiers are file paths.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"gitlab.com/tozd/go/errors"
)

// 💾 Local reads and writes plain files. Root is the library directory that
// must stay reachable for relocation to make sense.
type Local struct {
	root string
}

// 🏭 New creates local storage rooted at root
func New(root string) *Local {
	return &Local{root: filepath.Clean(root)}
}

// Root returns the library directory
func (l *Local) Root() string {
	return l.root
}

// EnsureRoot creates the library directory
func (l *Local) EnsureRoot(ctx context.Context) error {
	if err := os.MkdirAll(l.root, 0755); err != nil {
		return errors.Errorf("creating library root: %w", err)
	}
	return nil
}

// CheckRoot fails when the library directory is missing or not a directory
func (l *Local) CheckRoot(ctx context.Context) error {
	info, err := os.Stat(l.root)
	if err != nil {
		return errors.Errorf("checking library root: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("library root %s is not a directory", l.root)
	}
	return nil
}

// Open opens the source file
func (l *Local) Open(ctx context.Context, id item.ID) (io.ReadCloser, error) {
	f, err := os.Open(id.String())
	if err != nil {
		return nil, errors.Errorf("opening source file: %w", err)
	}
	return f, nil
}

// DisplayName returns the base name of the source path
func (l *Local) DisplayName(ctx context.Context, id item.ID) (string, bool) {
	p := strings.TrimSpace(id.String())
	if p == "" {
		return "", false
	}
	name := filepath.Base(p)
	if name == "." || name == string(filepath.Separator) {
		return "", false
	}
	return name, true
}

// DeleteSource removes the source file
func (l *Local) DeleteSource(ctx context.Context, id item.ID) error {
	if err := os.Remove(id.String()); err != nil {
		return errors.Errorf("deleting source file: %w", err)
	}
	return nil
}

// EnsureDir creates path and its parents
func (l *Local) EnsureDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// Create returns a writer that lands at path only when closed successfully.
// An existing file at path is replaced.
func (l *Local) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, errors.Errorf("creating temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, errors.Errorf("setting temp file mode: %w", err)
	}
	zerolog.Ctx(ctx).Trace().Str("path", path).Str("temp", tmp.Name()).Msg("writing file")
	return &atomicFile{File: tmp, path: path}, nil
}

// 🔒 atomicFile writes into a temp file and renames it into place on Close
type atomicFile struct {
	*os.File
	path string
	done bool
}

func (f *atomicFile) Close() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.File.Sync(); err != nil {
		f.File.Close()
		os.Remove(f.File.Name())
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(f.File.Name(), f.path); err != nil {
		os.Remove(f.File.Name()) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Abort discards everything written so far
func (f *atomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	f.File.Close()
	if err := os.Remove(f.File.Name()); err != nil {
		return errors.Errorf("removing temp file: %w", err)
	}
	return nil
}

// 🔄 Move relocates a file, creating the target's parent directories. It
// falls back to copy and delete when a rename is not possible.
func (l *Local) Move(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	zerolog.Ctx(ctx).Debug().Err(err).Str("src", src).Str("dst", dst).Msg("rename failed, copying instead")

	if err := copyFile(src, dst); err != nil {
		return errors.Errorf("copying file: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing moved file: %w", err)
	}
	return nil
}

// Remove deletes a file permanently
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}

// 📄 FileInfo describes a file in a library folder
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime int64 // Unix seconds
}

// ListFiles returns the regular, non-hidden files directly inside dir. A
// missing dir yields an empty list.
func (l *Local) ListFiles(ctx context.Context, dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, e.Name()),
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
	}
	return files, nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return destination.Close()
}
