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

package opts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/config"
	"github.com/walteh/pictriage/pkg/log"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/scan"
	"github.com/walteh/pictriage/pkg/storage"
	"github.com/walteh/pictriage/pkg/tagstore"
	"github.com/walteh/pictriage/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	Storage    *storage.Local
	Store      *tagstore.Store
	UserLogger *log.UserLogger
	Console    *log.Logger
}

// 🏭 Open wires storage and the tag store for cfg
func Open(ctx context.Context, cfg *config.Config, user *log.UserLogger, console *log.Logger) (*RootOpts, error) {
	st := storage.New(cfg.Library)
	if err := st.EnsureRoot(ctx); err != nil {
		return nil, errors.Errorf("preparing library: %w", err)
	}

	store, err := tagstore.Open(ctx, cfg.Database)
	if err != nil {
		return nil, errors.Errorf("opening tag store: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("options ready")
	return &RootOpts{
		Config:     cfg,
		Storage:    st,
		Store:      store,
		UserLogger: user,
		Console:    console,
	}, nil
}

// Close releases the tag store
func (o *RootOpts) Close() error {
	if o.Store == nil {
		return nil
	}
	return o.Store.Close()
}

// Lister returns the folder lister for the configured include patterns
func (o *RootOpts) Lister() (*scan.Lister, error) {
	return scan.New(o.Config.Include)
}

// Pipeline returns a relocation pipeline that records into the tag store
func (o *RootOpts) Pipeline(progress relocate.Progress) (*relocate.Pipeline, error) {
	return relocate.New(relocate.Options{
		Storage:           o.Storage,
		Base:              o.Config.Library,
		TrashDir:          o.Config.TrashDir,
		Workers:           o.Config.Workers,
		FallbackExtension: o.Config.FallbackExtension,
		Recorder:          o.Store,
		Progress:          progress,
	})
}

// Trash returns the trash manager for the configured trash folder
func (o *RootOpts) Trash() *trash.Manager {
	return trash.New(o.Config.TrashPath(), o.Storage, o.Store)
}
