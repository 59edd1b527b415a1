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

package session

import (
	"github.com/walteh/pictriage/pkg/item"
)

// 🔄 State is the lifecycle stage of a session
type State int

const (
	StateLoading State = iota
	StateActive
	StateComplete
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// 📸 Snapshot is a read-only copy of the session taken after an intent. The
// caller owns every map and slice in it.
type Snapshot struct {
	ID           string
	State        State
	Items        []item.ID
	Cursor       int
	Current      item.ID // Empty when complete
	Dispositions map[item.ID]item.Disposition
	StatusLabels map[item.ID]string
	IsComplete   bool
	CanUndo      bool
	LastCategory string
}

// Pending returns the number of decided items waiting for finalize
func (s Snapshot) Pending() int {
	return len(s.Dispositions)
}

// Remaining returns the number of items not yet presented
func (s Snapshot) Remaining() int {
	if s.Cursor >= len(s.Items) {
		return 0
	}
	return len(s.Items) - s.Cursor
}
