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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pictriage/cmd/pictriage/commands"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"github.com/walteh/pictriage/pkg/config"
	"github.com/walteh/pictriage/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the shared flags
type rootFlags struct {
	configFile string
	library    string
	debug      bool
}

// newRootCmd builds the command tree. Options are resolved once flags are
// parsed and shared by every subcommand.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "pictriage",
		Short: "Sort a folder of photos into category folders, one decision at a time",
		Long: `pictriage walks through the images of a folder one at a time. Each image is
tagged with a category or marked for deletion; decisions can be undone.
Finalizing moves tagged images into category folders inside the library and
deleted ones into its trash folder.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if flags.debug {
				logger := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
				ctx = logger.WithContext(ctx)
				cmd.SetContext(ctx)
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			o, err := opts.Open(ctx, cfg, log.NewUserLogger(ctx, out), log.NewWithZerolog(out, *zerolog.Ctx(ctx)))
			if err != nil {
				return err
			}
			*root = *o
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.Close()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (.hcl, .yaml or .json)")
	cmd.PersistentFlags().StringVarP(&flags.library, "library", "l", "", "library folder, when no config file is given")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("config", "library")

	cmd.AddCommand(
		commands.NewSortCmd(root),
		commands.NewTrashCmd(root),
		commands.NewTagsCmd(root),
		commands.NewFoldersCmd(root),
		commands.NewWatchCmd(root),
	)

	return cmd
}

func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	switch {
	case flags.configFile != "":
		cfg, err := config.Load(cmd.Context(), flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return cfg, nil
	case flags.library != "":
		return config.Default(flags.library)
	default:
		return nil, errors.Errorf("either --config or --library is required")
	}
}
