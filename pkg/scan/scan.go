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

// Package scan lists the image files of a folder in a stable order.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"gitlab.com/tozd/go/errors"
)

// DefaultPatterns matches the image formats a camera or screenshot tool writes
var DefaultPatterns = []string{"*.{jpg,jpeg,png,gif,webp,heic,heif,bmp,tif,tiff}"}

// 📂 Lister lists files matching any of its patterns. Matching is done on the
// lower-cased base name.
type Lister struct {
	patterns []string
}

// 🏭 New creates a lister. Empty patterns fall back to DefaultPatterns.
func New(patterns []string) (*Lister, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	clean := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid pattern %q", p)
		}
		clean = append(clean, p)
	}
	return &Lister{patterns: clean}, nil
}

// Match reports whether name matches one of the patterns
func (l *Lister) Match(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, p := range l.patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// List returns the matching regular files directly inside folder, sorted by
// name. Hidden files are skipped.
func (l *Lister) List(ctx context.Context, folder string) ([]item.ID, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Errorf("reading folder: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !l.Match(e.Name()) {
			logger.Trace().Str("name", e.Name()).Msg("skipping non-matching file")
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	items := make([]item.ID, 0, len(names))
	for _, n := range names {
		items = append(items, item.ID(filepath.Join(folder, n)))
	}

	logger.Debug().Str("folder", folder).Int("found", len(items)).Int("entries", len(entries)).Msg("listed folder")
	return items, nil
}
