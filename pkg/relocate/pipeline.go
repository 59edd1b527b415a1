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

package relocate

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTrashDir          = "Trash"
	DefaultWorkers           = 4
	DefaultFallbackExtension = ".jpg"
	fallbackPrefix           = "image_"
)

// ErrRootUnavailable is returned when no batch can be attempted at all
var ErrRootUnavailable = errors.Base("storage root unavailable")

// 🔧 Options configures a Pipeline
type Options struct {
	// Storage reads sources and writes destinations
	Storage Storage
	// Base is the directory category and trash folders are created in
	Base string
	// TrashDir is the folder name for deleted items, relative to Base
	TrashDir string
	// Workers bounds how many items are relocated at once
	Workers int
	// FallbackExtension is used for items without a display name
	FallbackExtension string
	// Recorder is told about every relocated item, optional
	Recorder Recorder
	// Progress receives progress updates, optional
	Progress Progress
}

// 🚚 Pipeline relocates batches of decided items
type Pipeline struct {
	storage  Storage
	base     string
	trashDir string
	workers  int
	ext      string
	recorder Recorder
	progress Progress
}

// 🏭 New creates a pipeline
func New(opts Options) (*Pipeline, error) {
	if opts.Storage == nil {
		return nil, errors.Errorf("storage is required")
	}
	if strings.TrimSpace(opts.Base) == "" {
		return nil, errors.Errorf("base directory is required")
	}

	p := &Pipeline{
		storage:  opts.Storage,
		base:     filepath.Clean(opts.Base),
		trashDir: opts.TrashDir,
		workers:  opts.Workers,
		ext:      opts.FallbackExtension,
		recorder: opts.Recorder,
		progress: opts.Progress,
	}
	if p.trashDir == "" {
		p.trashDir = DefaultTrashDir
	}
	if p.workers <= 0 {
		p.workers = DefaultWorkers
	}
	if p.ext == "" {
		p.ext = DefaultFallbackExtension
	}
	if !strings.HasPrefix(p.ext, ".") {
		p.ext = "." + p.ext
	}
	if p.progress == nil {
		p.progress = noopProgress{}
	}
	return p, nil
}

// Base returns the directory destinations are created under
func (p *Pipeline) Base() string {
	return p.base
}

// TrashPath returns the absolute trash folder
func (p *Pipeline) TrashPath() string {
	return filepath.Join(p.base, p.trashDir)
}

// DestinationDir returns the folder an item with the given disposition goes to
func (p *Pipeline) DestinationDir(d item.Disposition) string {
	if d.IsDeleted() {
		return p.TrashPath()
	}
	name := CategoryDir(d.Category)
	// a category never shares the trash folder, or emptying the trash would take it along
	if strings.EqualFold(name, p.trashDir) {
		name = "_" + name
	}
	return filepath.Join(p.base, name)
}

// CategoryDir reduces a category name to a single path element
func CategoryDir(category string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(category))
	if name == "" || name == "." || name == ".." {
		return "_" + name
	}
	return name
}

// 🏃 Relocate processes every item in the batch and reports each outcome. Item
// failures never produce an error; the returned error is reserved for an
// unavailable storage root. Cancellation stops new items from starting, the
// remaining ones are reported as cancelled.
func (p *Pipeline) Relocate(ctx context.Context, batch map[item.ID]item.Disposition) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if err := p.storage.CheckRoot(ctx); err != nil {
		return nil, errors.Errorf("%w: %w", ErrRootUnavailable, err)
	}

	ids := make([]item.ID, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	logger.Debug().Int("items", len(ids)).Int("workers", p.workers).Str("base", p.base).Msg("relocating batch")

	r := &run{pipeline: p}
	report := newReport(len(ids))

	var (
		mu        sync.Mutex
		processed int
	)
	record := func(o Outcome) {
		mu.Lock()
		report.add(o)
		processed++
		n := processed
		mu.Unlock()
		p.progress.UpdateProgress(ctx, n)
	}

	p.progress.StartOperation(ctx, len(ids))
	defer p.progress.FinishOperation(ctx)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, id := range ids {
		d := batch[id]
		if err := ctx.Err(); err != nil {
			record(cancelled(id, d, err))
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(cancelled(id, d, err))
				return nil
			}
			record(r.relocate(ctx, id, d))
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug().
		Int("succeeded", report.Succeeded).
		Int("source_unreadable", report.SourceUnreadable).
		Int("destination_write_failed", report.DestinationWriteFailed).
		Int("delete_warnings", report.DeleteWarnings).
		Int("cancelled", report.Cancelled).
		Msg("batch relocated")

	return report, nil
}

func cancelled(id item.ID, d item.Disposition, err error) Outcome {
	return Outcome{Item: id, Disposition: d, Kind: OutcomeCancelled, Err: err}
}

// run holds the per-batch directory cache
type run struct {
	pipeline *Pipeline
	dirs     singleflight.Group
	created  sync.Map
}

func (r *run) ensureDir(ctx context.Context, dir string) error {
	if _, ok := r.created.Load(dir); ok {
		return nil
	}
	_, err, _ := r.dirs.Do(dir, func() (interface{}, error) {
		if _, ok := r.created.Load(dir); ok {
			return nil, nil
		}
		if err := r.pipeline.storage.EnsureDir(ctx, dir); err != nil {
			return nil, err
		}
		r.created.Store(dir, struct{}{})
		return nil, nil
	})
	return err
}

// 📄 relocate moves a single item
func (r *run) relocate(ctx context.Context, id item.ID, d item.Disposition) Outcome {
	p := r.pipeline
	logger := zerolog.Ctx(ctx).With().Str("item", id.String()).Str("disposition", d.String()).Logger()
	out := Outcome{Item: id, Disposition: d}

	dir := p.DestinationDir(d)
	if err := r.ensureDir(ctx, dir); err != nil {
		out.Kind = OutcomeDestinationWriteFailed
		out.Err = errors.Errorf("creating destination directory: %w", err)
		logger.Debug().Err(out.Err).Msg("relocation failed")
		return out
	}

	name, ok := p.storage.DisplayName(ctx, id)
	if !ok || strings.TrimSpace(name) == "" {
		name = fallbackPrefix + ulid.Make().String() + p.ext
		logger.Debug().Str("name", name).Msg("no display name, using fallback")
	}
	out.Destination = filepath.Join(dir, filepath.Base(name))
	out.Kind = OutcomeSuccess

	if filepath.Clean(id.String()) == out.Destination {
		// sorting a library folder into itself, the source is the destination
		logger.Debug().Str("destination", out.Destination).Msg("already in place")
	} else {
		if kind, err := p.copy(ctx, id, out.Destination); err != nil {
			out.Kind = kind
			out.Err = err
			logger.Debug().Err(err).Str("kind", kind.String()).Msg("relocation failed")
			return out
		}
		if err := p.storage.DeleteSource(ctx, id); err != nil {
			out.Kind = OutcomeSourceDeleteFailed
			out.Err = errors.Errorf("deleting source: %w", err)
			logger.Warn().Err(err).Msg("copied but source could not be deleted")
		}
	}

	if p.recorder != nil {
		var err error
		if d.IsTagged() {
			err = p.recorder.RecordTag(ctx, out.Destination, d.Category, id.String())
		} else {
			err = p.recorder.RecordTrash(ctx, out.Destination, id.String())
		}
		if err != nil {
			out.Warning = errors.Errorf("recording destination: %w", err)
			logger.Warn().Err(err).Msg("relocated but not recorded")
		}
	}

	logger.Debug().Str("destination", out.Destination).Str("outcome", out.Kind.String()).Msg("item relocated")
	return out
}

// 📥 copy streams the source into dst. The returned kind tells which side failed.
func (p *Pipeline) copy(ctx context.Context, id item.ID, dst string) (OutcomeKind, error) {
	src, err := p.storage.Open(ctx, id)
	if err != nil {
		return OutcomeSourceUnreadable, errors.Errorf("opening source: %w", err)
	}
	defer src.Close()

	w, err := p.storage.Create(ctx, dst)
	if err != nil {
		return OutcomeDestinationWriteFailed, errors.Errorf("creating destination: %w", err)
	}

	rt := &readTracker{r: src}
	if _, err := io.Copy(w, rt); err != nil {
		discard(w)
		if rt.err != nil {
			return OutcomeSourceUnreadable, errors.Errorf("reading source: %w", rt.err)
		}
		return OutcomeDestinationWriteFailed, errors.Errorf("writing destination: %w", err)
	}

	if err := w.Close(); err != nil {
		return OutcomeDestinationWriteFailed, errors.Errorf("closing destination: %w", err)
	}
	return OutcomeSuccess, nil
}

func discard(w io.WriteCloser) {
	if a, ok := w.(Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = w.Close()
}

// readTracker remembers the read side's error so a failed copy can be blamed
// on the right end
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(b []byte) (int, error) {
	n, err := t.r.Read(b)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}
