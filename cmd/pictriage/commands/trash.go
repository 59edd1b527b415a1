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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"gitlab.com/tozd/go/errors"
)

// NewTrashCmd creates the trash command and its subcommands
func NewTrashCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and manage trashed images",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List trashed images and where they came from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				entries, err := opts.Trash().List(cmd.Context())
				if err != nil {
					return err
				}
				opts.UserLogger.LogTrash(entries)
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Move a trashed image back to its original folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				original, err := opts.Trash().Restore(cmd.Context(), args[0])
				if err != nil {
					return errors.Errorf("restoring: %w", err)
				}
				opts.Console.Successf("restored %s", original)
				return nil
			},
		},
		&cobra.Command{
			Use:   "purge <file>",
			Short: "Delete a trashed image permanently",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.Trash().Purge(cmd.Context(), args[0]); err != nil {
					return errors.Errorf("purging: %w", err)
				}
				opts.Console.Successf("deleted %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "empty",
			Short: "Delete every trashed image permanently",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := opts.Trash().Empty(cmd.Context())
				if err != nil {
					return errors.Errorf("emptying trash: %w", err)
				}
				opts.Console.Success(fmt.Sprintf("deleted %d images", n))
				return nil
			},
		},
	)

	return cmd
}
