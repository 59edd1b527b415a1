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
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pictriage/cmd/pictriage/opts"
	"github.com/walteh/pictriage/pkg/log"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/session"
	"github.com/walteh/pictriage/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const sortHelp = `t <category>  tag with category
q             tag with the last category
d             mark for trash
u             undo the last decision
j <n>         jump back to item n
s             show the current item
c             list known categories
f             save decisions (move files)
w <n>         show what the last save did with item n
x             exit`

// NewSortCmd creates the interactive sort command
func NewSortCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <folder>",
		Short: "Triage the images of a folder",
		Long: `Sort presents the images of a folder one at a time and reads decisions
from standard input, one per line:

` + sortHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lister, err := opts.Lister()
			if err != nil {
				return errors.Errorf("creating lister: %w", err)
			}
			tracker := status.New(zerolog.Ctx(ctx))
			pipeline, err := opts.Pipeline(tracker)
			if err != nil {
				return errors.Errorf("creating pipeline: %w", err)
			}

			t := &triage{
				opts:     opts,
				session:  session.New(ctx),
				pipeline: pipeline,
				tracker:  tracker,
			}

			opts.Console.Header("sorting " + args[0])
			snap, err := t.session.Load(ctx, lister, args[0])
			if err != nil {
				return errors.Errorf("loading folder: %w", err)
			}
			opts.UserLogger.LogSnapshot(snap)

			return t.run(ctx, cmd.InOrStdin())
		},
	}

	return cmd
}

// triage drives one session from text intents
type triage struct {
	opts     *opts.RootOpts
	session  *session.Session
	pipeline *relocate.Pipeline
	tracker  status.StatusReporter
}

func (t *triage) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			break
		}
		done, err := t.handle(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("reading input: %w", err)
	}

	if pending := t.session.Snapshot().Pending(); pending > 0 {
		t.opts.UserLogger.LogValidation(false, fmt.Sprintf("%d decisions were not saved", pending), nil)
	}
	return nil
}

// handle applies one intent line. Rejected intents are reported and do not
// end the loop; only a failure to report ends it.
func (t *triage) handle(ctx context.Context, line string) (bool, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	user := t.opts.UserLogger

	var (
		snap session.Snapshot
		err  error
	)
	current, _ := t.session.CurrentItem()

	switch strings.ToLower(verb) {
	case "":
		return false, nil
	case "t", "tag":
		snap, err = t.session.Tag(arg)
		if err == nil {
			user.LogDecision(current, snap.Dispositions[current])
		}
	case "q", "quick":
		snap, err = t.session.QuickTag()
		if err == nil {
			user.LogDecision(current, snap.Dispositions[current])
		}
	case "d", "delete":
		snap, err = t.session.Delete()
		if err == nil {
			user.LogDecision(current, snap.Dispositions[current])
		}
	case "u", "undo":
		snap, err = t.session.Undo()
		if err == nil {
			user.LogUndo(snap)
		}
	case "j", "jump":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			user.LogValidation(false, fmt.Sprintf("not an item number: %q", arg), nil)
			return false, nil
		}
		snap, err = t.session.JumpTo(n - 1)
	case "s", "show":
		snap = t.session.Snapshot()
	case "c", "categories":
		cats, err := t.opts.Store.Categories(ctx)
		if err != nil {
			return false, errors.Errorf("listing categories: %w", err)
		}
		user.LogCategories(cats)
		return false, nil
	case "f", "finalize":
		return false, t.finalize(ctx)
	case "w", "why":
		t.why(ctx, arg)
		return false, nil
	case "x", "exit", "quit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(t.opts.Console.Writer(), sortHelp)
		return false, nil
	default:
		user.LogValidation(false, fmt.Sprintf("unknown command %q, try h", verb), nil)
		return false, nil
	}

	if err != nil {
		user.LogValidation(false, describe(err), err)
		return false, nil
	}
	user.LogSnapshot(snap)
	return false, nil
}

func (t *triage) finalize(ctx context.Context) error {
	snap := t.session.Snapshot()
	if snap.Pending() == 0 {
		t.opts.UserLogger.LogStateChange("Nothing to save")
		return nil
	}

	console := t.opts.Console
	console.StartFinalize(ctx, log.FinalizeOperation{
		Session: t.session.ID(),
		Library: t.pipeline.Base(),
		Items:   snap.Pending(),
	})

	report, err := t.session.Finalize(ctx, t.pipeline)
	if err != nil {
		t.tracker.TrackFailure(ctx, err)
		console.Errorf("nothing was moved: %v", err)
		return nil
	}
	t.tracker.TrackReport(ctx, report)
	for _, o := range report.Sorted() {
		console.LogOutcome(ctx, o)
	}
	console.EndFinalize(ctx, report)

	if report.Failed() > 0 || report.Cancelled > 0 {
		t.opts.UserLogger.LogStateChange("Failed items keep their decisions; finalize again to retry")
	}
	return nil
}

// why reports the outcome the last save recorded for the 1-based item n
func (t *triage) why(ctx context.Context, arg string) {
	user := t.opts.UserLogger
	items := t.session.Snapshot().Items
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		user.LogValidation(false, "No such item", nil)
		return
	}
	o, err := t.tracker.GetOutcome(ctx, items[n-1])
	if err != nil {
		user.LogValidation(false, fmt.Sprintf("%s has not been saved yet", filepath.Base(items[n-1].String())), nil)
		return
	}
	user.LogOutcome(o)
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(err, session.ErrNoPriorCategory):
		return "No category used yet"
	case errors.Is(err, session.ErrEmptyCategory):
		return "Category name is empty"
	case errors.Is(err, session.ErrInvalidIndex):
		return "No such item"
	case errors.Is(err, session.ErrSessionAlreadyComplete):
		return "Every item has been reviewed"
	case errors.Is(err, session.ErrSessionLoading):
		return "Still loading"
	default:
		return "Could not apply that"
	}
}
