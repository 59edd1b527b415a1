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

// Package watch reports new screenshots as they appear in a folder so they
// can be triaged without a manual rescan.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

const DefaultDebounce = 250 * time.Millisecond

// DefaultPatterns matches the names screenshot tools give their files
var DefaultPatterns = []string{"screenshot*"}

// Options configures a Watcher
type Options struct {
	Dir      string
	Patterns []string
	Debounce time.Duration
}

// 👀 Watcher watches a single folder for new matching files
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	match    *scan.Lister
	debounce time.Duration
}

// 🏭 New starts watching opts.Dir
func New(opts Options) (*Watcher, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.Errorf("watch directory is required")
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	match, err := scan.New(patterns)
	if err != nil {
		return nil, errors.Errorf("watch patterns: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Clean(opts.Dir)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, errors.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{watcher: fw, dir: dir, match: match, debounce: debounce}, nil
}

// Dir returns the watched folder
func (w *Watcher) Dir() string {
	return w.dir
}

// 🏃 Run calls found for every new matching file once it has stopped
// changing for the debounce period. It returns when ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, found func(context.Context, item.ID)) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "watcher").Str("dir", w.dir).Logger()

	pending := map[string]time.Time{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.wanted(event) {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file system event")

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				delete(pending, event.Name)
				continue
			}
			// writes only keep a new file pending; edits to old files are not news
			if _, ok := pending[event.Name]; !ok && !event.Has(fsnotify.Create) {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(w.debounce)
			}
			pending[event.Name] = time.Now()

		case <-timer.C:
			now := time.Now()
			var ready []string
			for path, last := range pending {
				if now.Sub(last) >= w.debounce {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				logger.Debug().Str("path", path).Msg("new screenshot")
				found(ctx, item.ID(path))
			}
			if len(pending) > 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) wanted(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.match.Match(base)
}
