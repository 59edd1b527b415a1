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
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/pictriage/pkg/relocate"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent item entries
	nameWidth   = 35 // Base width for the item name
	typeWidth   = 15 // Width for the disposition
	statusWidth = 25 // Width for the outcome
)

// 🎯 FormatOutcomeLine formats an outcome as an aligned console row
func FormatOutcomeLine(o relocate.Outcome) string {
	var prefix string
	switch {
	case o.Kind == relocate.OutcomeSuccess && o.Disposition.IsDeleted():
		prefix = color.RedString("✗")
	case o.Kind == relocate.OutcomeSuccess:
		prefix = color.GreenString("✓")
	case o.Kind == relocate.OutcomeSourceDeleteFailed:
		prefix = color.YellowString("⟳")
	case o.Kind == relocate.OutcomeCancelled:
		prefix = color.HiBlackString("-")
	default:
		prefix = color.RedString("!")
	}

	disposition := "trash"
	if o.Disposition.IsTagged() {
		disposition = o.Disposition.Category
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.Base(o.Item.String()))
	typePart := fmt.Sprintf("%-*s", typeWidth, disposition)
	statusPart := fmt.Sprintf("%-*s", statusWidth, o.Kind.String())

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		typePart,
		statusPart,
	)
}
