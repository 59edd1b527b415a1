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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/scan"
	"github.com/walteh/pictriage/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultDatabaseName = ".pictriage.db"
	DefaultDebounce     = "250ms"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 👀 WatchConfig configures the screenshot watcher
type WatchConfig struct {
	Dir      string   `json:"dir" yaml:"dir"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Debounce string   `json:"debounce,omitempty" yaml:"debounce,omitempty"` // Go duration, e.g. "250ms"

	debounce time.Duration
}

// DebounceDuration returns the parsed debounce, valid after Validate
func (w *WatchConfig) DebounceDuration() time.Duration {
	return w.debounce
}

// 📚 Config represents the complete configuration
type Config struct {
	Library           string       `json:"library" yaml:"library"`                                           // Where category folders and the trash live
	TrashDir          string       `json:"trash_dir,omitempty" yaml:"trash_dir,omitempty"`                   // Trash folder name inside Library
	Database          string       `json:"database,omitempty" yaml:"database,omitempty"`                     // Tag store path, relative to Library unless absolute
	Workers           int          `json:"workers,omitempty" yaml:"workers,omitempty"`                       // Concurrent relocations
	Include           []string     `json:"include,omitempty" yaml:"include,omitempty"`                       // File name patterns a folder listing keeps
	FallbackExtension string       `json:"fallback_extension,omitempty" yaml:"fallback_extension,omitempty"` // Extension for files without a usable name
	Watch             *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🏭 Default returns a validated configuration for library with every other
// field at its default
func Default(library string) (*Config, error) {
	cfg := &Config{Library: library}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Library) == "" {
		return errors.Errorf("library is required")
	}
	lib, err := filepath.Abs(expandHome(cfg.Library))
	if err != nil {
		return errors.Errorf("resolving library: %w", err)
	}
	cfg.Library = lib

	if cfg.TrashDir == "" {
		cfg.TrashDir = relocate.DefaultTrashDir
	}
	if strings.ContainsAny(cfg.TrashDir, `/\`) {
		return errors.Errorf("trash_dir must be a folder name, got %q", cfg.TrashDir)
	}

	if cfg.Database == "" {
		cfg.Database = DefaultDatabaseName
	}
	cfg.Database = expandHome(cfg.Database)
	if !filepath.IsAbs(cfg.Database) {
		cfg.Database = filepath.Join(cfg.Library, cfg.Database)
	}
	cfg.Database = filepath.Clean(cfg.Database)

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = relocate.DefaultWorkers
	}

	if len(cfg.Include) == 0 {
		cfg.Include = append([]string(nil), scan.DefaultPatterns...)
	}
	if err := validatePatterns("include", cfg.Include); err != nil {
		return err
	}

	if cfg.FallbackExtension == "" {
		cfg.FallbackExtension = relocate.DefaultFallbackExtension
	}
	if !strings.HasPrefix(cfg.FallbackExtension, ".") {
		cfg.FallbackExtension = "." + cfg.FallbackExtension
	}

	if cfg.Watch != nil {
		if err := cfg.Watch.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (w *WatchConfig) validate() error {
	if strings.TrimSpace(w.Dir) == "" {
		return errors.Errorf("watch.dir is required")
	}
	dir, err := filepath.Abs(expandHome(w.Dir))
	if err != nil {
		return errors.Errorf("resolving watch.dir: %w", err)
	}
	w.Dir = dir

	if len(w.Patterns) == 0 {
		w.Patterns = append([]string(nil), watch.DefaultPatterns...)
	}
	if err := validatePatterns("watch.patterns", w.Patterns); err != nil {
		return err
	}

	if w.Debounce == "" {
		w.Debounce = DefaultDebounce
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return errors.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return errors.Errorf("watch.debounce must be positive, got %s", w.Debounce)
	}
	w.debounce = d
	return nil
}

func validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("%s: invalid pattern %q", field, p)
		}
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// TrashPath returns the absolute trash folder
func (cfg *Config) TrashPath() string {
	return filepath.Join(cfg.Library, cfg.TrashDir)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	s := fmt.Sprintf("%s (trash: %s, db: %s, workers: %d)", cfg.Library, cfg.TrashDir, cfg.Database, cfg.Workers)
	if cfg.Watch != nil {
		s += fmt.Sprintf(" watching %s", cfg.Watch.Dir)
	}
	return s
}
