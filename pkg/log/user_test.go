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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/session"
	"github.com/walteh/pictriage/pkg/tagstore"
	"github.com/walteh/pictriage/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

func newTestUserLogger(t *testing.T) (*UserLogger, *bytes.Buffer) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)
	buf := &bytes.Buffer{}
	return NewUserLogger(context.Background(), buf), buf
}

func TestLogSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		want     []string
	}{
		{
			name:     "loading",
			snapshot: session.Snapshot{State: session.StateLoading},
			want:     []string{"Loading"},
		},
		{
			name: "active_with_label",
			snapshot: session.Snapshot{
				State:        session.StateActive,
				Items:        []item.ID{"/in/a.jpg", "/in/b.jpg"},
				Cursor:       1,
				Current:      "/in/b.jpg",
				StatusLabels: map[item.ID]string{"/in/b.jpg": "Tagged"},
				LastCategory: "Family",
			},
			want: []string{"[2/2] b.jpg", "(Tagged)", "1 left", "q: Family"},
		},
		{
			name: "complete",
			snapshot: session.Snapshot{
				State:        session.StateComplete,
				Items:        []item.ID{"/in/a.jpg"},
				Cursor:       1,
				Dispositions: map[item.ID]item.Disposition{"/in/a.jpg": item.Deleted()},
				IsComplete:   true,
			},
			want: []string{"All 1 items reviewed, 1 waiting to be saved"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, buf := newTestUserLogger(t)
			u.LogSnapshot(tt.snapshot)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestLogDecisions(t *testing.T) {
	u, buf := newTestUserLogger(t)
	u.LogDecision("/in/a.jpg", item.Tagged("Travel"))
	u.LogDecision("/in/b.jpg", item.Deleted())
	u.LogValidation(false, "could not tag", errors.New("category is empty"))

	out := buf.String()
	assert.Contains(t, out, "a.jpg tagged Travel")
	assert.Contains(t, out, "b.jpg marked for trash")
	assert.Contains(t, out, "category is empty")
}

func TestLogOutcome(t *testing.T) {
	u, buf := newTestUserLogger(t)
	u.LogOutcome(relocate.Outcome{Item: "/in/a.jpg", Disposition: item.Tagged("Travel"), Kind: relocate.OutcomeSuccess})
	u.LogOutcome(relocate.Outcome{
		Item:        "/in/b.jpg",
		Disposition: item.Deleted(),
		Kind:        relocate.OutcomeSourceUnreadable,
		Err:         errors.New("permission denied"),
	})

	out := buf.String()
	assert.Contains(t, out, "✨ Moved a.jpg to Travel")
	assert.Contains(t, out, "❌ Could not read b.jpg")
	assert.Contains(t, out, "permission denied")
}

func TestLogTables(t *testing.T) {
	u, buf := newTestUserLogger(t)

	u.LogCategories(nil)
	u.LogCategories([]string{"Family", "Travel"})
	u.LogFolders([]tagstore.Folder{{Category: "Family", Count: 12}})
	u.LogTrash([]trash.Entry{{Name: "a.jpg", Original: "/in/a.jpg", TrashedAt: time.Now()}, {Name: "b.jpg"}})
	u.LogTags("Travel", []tagstore.Tag{{Destination: "/lib/Travel/c.jpg", Category: "Travel", Original: "/in/c.jpg", CreatedAt: time.Now()}})
	u.LogTags("Nature", nil)

	out := buf.String()
	assert.Contains(t, out, "No categories yet")
	assert.Contains(t, out, "Travel")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "/in/a.jpg")
	assert.Contains(t, out, "?", "unknown originals should be marked")
	assert.Contains(t, out, "c.jpg")
	assert.Contains(t, out, "/in/c.jpg")
	assert.Contains(t, out, "No files in Nature")
}
