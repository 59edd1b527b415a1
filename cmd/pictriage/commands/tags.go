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
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"gitlab.com/tozd/go/errors"
)

// NewTagsCmd creates the command listing known categories, or the files of
// one category
func NewTagsCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [category]",
		Short: "List every category used so far, or the files saved under one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				cats, err := opts.Store.Categories(ctx)
				if err != nil {
					return errors.Errorf("listing categories: %w", err)
				}
				opts.UserLogger.LogCategories(cats)
				return nil
			}

			tags, err := opts.Store.Tags(ctx, args[0])
			if err != nil {
				return errors.Errorf("listing %s: %w", args[0], err)
			}
			kept := tags[:0]
			for _, t := range tags {
				if _, err := os.Stat(t.Destination); errors.Is(err, fs.ErrNotExist) {
					zerolog.Ctx(ctx).Debug().Str("destination", t.Destination).Msg("tagged file is gone, dropping record")
					if err := opts.Store.DeleteTag(ctx, t.Destination); err != nil {
						return errors.Errorf("dropping missing file: %w", err)
					}
					continue
				}
				kept = append(kept, t)
			}
			opts.UserLogger.LogTags(args[0], kept)
			return nil
		},
	}
}

// NewFoldersCmd creates the command summarizing category folders
func NewFoldersCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "Show each category folder with its number of images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := opts.Store.Folders(cmd.Context())
			if err != nil {
				return errors.Errorf("listing folders: %w", err)
			}
			opts.UserLogger.LogFolders(folders)
			return nil
		},
	}
}
