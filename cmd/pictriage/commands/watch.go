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
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCmd creates the screenshot watcher command
func NewWatchCmd(opts *opts.RootOpts) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report new screenshots until interrupted",
		Long: `Watch reports every new screenshot that appears in the watch folder, so it
can be sorted later. The folder comes from the watch block of the config or
from --dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wopts := watch.Options{Dir: dir}
			if w := opts.Config.Watch; w != nil {
				if wopts.Dir == "" {
					wopts.Dir = w.Dir
				}
				wopts.Patterns = w.Patterns
				wopts.Debounce = w.DebounceDuration()
			}
			if wopts.Dir == "" {
				return errors.Errorf("no watch folder: set watch.dir in the config or pass --dir")
			}

			w, err := watch.New(wopts)
			if err != nil {
				return err
			}
			defer w.Close()

			opts.UserLogger.LogStateChange("Watching " + w.Dir())
			return w.Run(cmd.Context(), func(ctx context.Context, id item.ID) {
				opts.UserLogger.LogFound(id)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "folder to watch, overrides the config")
	return cmd
}
