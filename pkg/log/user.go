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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/session"
	"github.com/walteh/pictriage/pkg/status"
	"github.com/walteh/pictriage/pkg/tagstore"
	"github.com/walteh/pictriage/pkg/trash"
)

// 📢 UserLogger provides user-friendly feedback about a triage session
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger writing to out, stdout when nil
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📸 LogSnapshot shows where the session stands
func (u *UserLogger) LogSnapshot(s session.Snapshot) {
	switch s.State {
	case session.StateLoading:
		u.printer(pterm.Info, "⏳").Println("Loading...")
		return
	case session.StateComplete:
		msg := fmt.Sprintf("All %d items reviewed, %d waiting to be saved", len(s.Items), s.Pending())
		u.printer(pterm.Success, "🎉").Println(msg)
		u.log.Debug().Str("session", s.ID).Int("pending", s.Pending()).Msg(msg)
		return
	}

	msg := fmt.Sprintf("[%d/%d] %s", s.Cursor+1, len(s.Items), filepath.Base(s.Current.String()))
	if label, ok := s.StatusLabels[s.Current]; ok {
		msg += fmt.Sprintf(" (%s)", label)
	}
	msg += fmt.Sprintf("  %d left", s.Remaining())
	if s.LastCategory != "" {
		msg += fmt.Sprintf("  q: %s", s.LastCategory)
	}
	u.printer(pterm.Info, "📸").Println(msg)
	u.log.Debug().
		Str("session", s.ID).
		Int("cursor", s.Cursor).
		Str("item", s.Current.String()).
		Bool("can_undo", s.CanUndo).
		Msg("snapshot")
}

// 🏷️ LogDecision confirms a decision on an item
func (u *UserLogger) LogDecision(id item.ID, d item.Disposition) {
	name := filepath.Base(id.String())
	if d.IsDeleted() {
		u.printer(pterm.Warning, "🗑️").Printf("%s marked for trash\n", name)
		return
	}
	u.printer(pterm.Success, "🏷️").Printf("%s tagged %s\n", name, d.Category)
}

// 📋 LogOutcome explains what the last save did with an item
func (u *UserLogger) LogOutcome(o relocate.Outcome) {
	msg := status.NewDefaultOutcomeFormatter().FormatOutcome(o)
	if o.Relocated() {
		u.printer(pterm.Success, "📋").Println(msg)
	} else {
		u.printer(pterm.Warning, "📋").Println(msg)
	}
	if o.Err != nil {
		pterm.Error.WithWriter(u.out).Println(o.Err)
	}
	if o.Warning != nil {
		pterm.Warning.WithWriter(u.out).Println(o.Warning)
	}
}

// ↩️ LogUndo confirms an undone decision
func (u *UserLogger) LogUndo(s session.Snapshot) {
	u.printer(pterm.Info, "↩️").Printf("Back to %s\n", filepath.Base(s.Current.String()))
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}

// 📚 LogCategories lists known categories, numbered for quick selection
func (u *UserLogger) LogCategories(categories []string) {
	if len(categories) == 0 {
		u.printer(pterm.Info, "📚").Println("No categories yet")
		return
	}
	data := pterm.TableData{{"#", "Category"}}
	for i, c := range categories {
		data = append(data, []string{strconv.Itoa(i + 1), c})
	}
	u.renderTable(data)
}

// 📁 LogFolders shows every category folder with its size
func (u *UserLogger) LogFolders(folders []tagstore.Folder) {
	if len(folders) == 0 {
		u.printer(pterm.Info, "📁").Println("No tagged folders yet")
		return
	}
	data := pterm.TableData{{"Folder", "Files"}}
	for _, f := range folders {
		data = append(data, []string{f.Category, strconv.Itoa(f.Count)})
	}
	u.renderTable(data)
}

// 🖼️ LogTags lists the files saved under one category
func (u *UserLogger) LogTags(category string, tags []tagstore.Tag) {
	if len(tags) == 0 {
		u.printer(pterm.Info, "🖼️").Printf("No files in %s\n", category)
		return
	}
	data := pterm.TableData{{"File", "Original", "Tagged"}}
	for _, t := range tags {
		data = append(data, []string{filepath.Base(t.Destination), t.Original, t.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	u.renderTable(data)
}

// 🗑️ LogTrash lists the trash contents
func (u *UserLogger) LogTrash(entries []trash.Entry) {
	if len(entries) == 0 {
		u.printer(pterm.Info, "🗑️").Println("Trash is empty")
		return
	}
	data := pterm.TableData{{"File", "Original", "Trashed"}}
	for _, e := range entries {
		original := e.Original
		if original == "" {
			original = "?"
		}
		data = append(data, []string{e.Name, original, e.TrashedAt.Local().Format("2006-01-02 15:04")})
	}
	u.renderTable(data)
}

// 👀 LogFound announces a file picked up by the watcher
func (u *UserLogger) LogFound(id item.ID) {
	u.printer(pterm.Info, "👀").Printf("New screenshot %s\n", filepath.Base(id.String()))
	u.log.Info().Str("item", id.String()).Msg("new screenshot")
}

// 📦 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

func (u *UserLogger) renderTable(data pterm.TableData) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(u.out).Render(); err != nil {
		u.log.Error().Err(err).Msg("rendering table")
	}
}
