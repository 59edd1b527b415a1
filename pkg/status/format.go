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

package status

import (
	"fmt"
	"path/filepath"

	"github.com/walteh/pictriage/pkg/relocate"
)

// 🎨 OutcomeFormatter turns relocation events into messages
type OutcomeFormatter interface {
	// FormatOutcome formats what happened to a single item
	FormatOutcome(o relocate.Outcome) string
	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultOutcomeFormatter provides a default implementation of OutcomeFormatter
type DefaultOutcomeFormatter struct{}

// NewDefaultOutcomeFormatter creates a new DefaultOutcomeFormatter
func NewDefaultOutcomeFormatter() *DefaultOutcomeFormatter {
	return &DefaultOutcomeFormatter{}
}

// FormatOutcome formats an item outcome with emojis
func (f *DefaultOutcomeFormatter) FormatOutcome(o relocate.Outcome) string {
	name := filepath.Base(o.Item.String())
	switch o.Kind {
	case relocate.OutcomeSuccess:
		if o.Disposition.IsDeleted() {
			return fmt.Sprintf("🗑️  Trashed %s", name)
		}
		return fmt.Sprintf("✨ Moved %s to %s", name, o.Disposition.Category)
	case relocate.OutcomeSourceDeleteFailed:
		return fmt.Sprintf("⚠️  Copied %s, original left behind", name)
	case relocate.OutcomeSourceUnreadable:
		return fmt.Sprintf("❌ Could not read %s", name)
	case relocate.OutcomeDestinationWriteFailed:
		return fmt.Sprintf("❌ Could not write %s", name)
	case relocate.OutcomeCancelled:
		return fmt.Sprintf("⏸️  Skipped %s", name)
	default:
		return fmt.Sprintf("❔ %s", name)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultOutcomeFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultOutcomeFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// 🧾 FormatSummary describes a finished batch, e.g. "48 of 50 saved, 2 failed"
func FormatSummary(r *relocate.Report) string {
	if r == nil {
		return "nothing to save"
	}
	s := fmt.Sprintf("%d of %d saved, %d failed", r.Relocated(), r.Total(), r.Failed())
	if r.DeleteWarnings > 0 {
		s += fmt.Sprintf(", %d originals left behind", r.DeleteWarnings)
	}
	if r.Cancelled > 0 {
		s += fmt.Sprintf(", %d skipped", r.Cancelled)
	}
	return s
}
