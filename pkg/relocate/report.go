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

package relocate

import (
	"sort"

	"github.com/walteh/pictriage/pkg/item"
)

// 📊 OutcomeKind is the result of relocating one item
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeSourceUnreadable
	OutcomeDestinationWriteFailed
	OutcomeSourceDeleteFailed // Copied, but the source is still there
	OutcomeCancelled          // Never attempted
)

// String returns a string representation of OutcomeKind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSourceUnreadable:
		return "source_unreadable"
	case OutcomeDestinationWriteFailed:
		return "destination_write_failed"
	case OutcomeSourceDeleteFailed:
		return "source_delete_failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// 📄 Outcome describes what happened to a single item
type Outcome struct {
	Item        item.ID
	Disposition item.Disposition
	Kind        OutcomeKind
	Destination string // Empty when no destination was resolved
	Err         error  // Cause of a failure or of the delete warning
	Warning     error  // Non-fatal problem recording the destination
}

// AfterCopySucceeded reports whether the content reached its destination
func (o Outcome) AfterCopySucceeded() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeSourceDeleteFailed
}

// Relocated reports whether the item's decision has been carried out
func (o Outcome) Relocated() bool {
	return o.AfterCopySucceeded()
}

// 📋 Report aggregates the outcomes of one batch
type Report struct {
	Outcomes map[item.ID]Outcome

	Succeeded              int
	SourceUnreadable       int
	DestinationWriteFailed int
	DeleteWarnings         int
	Cancelled              int
}

func newReport(size int) *Report {
	return &Report{Outcomes: make(map[item.ID]Outcome, size)}
}

func (r *Report) add(o Outcome) {
	r.Outcomes[o.Item] = o
	switch o.Kind {
	case OutcomeSuccess:
		r.Succeeded++
	case OutcomeSourceUnreadable:
		r.SourceUnreadable++
	case OutcomeDestinationWriteFailed:
		r.DestinationWriteFailed++
	case OutcomeSourceDeleteFailed:
		r.DeleteWarnings++
	case OutcomeCancelled:
		r.Cancelled++
	}
}

// Total returns the number of items in the batch
func (r *Report) Total() int {
	return len(r.Outcomes)
}

// Relocated returns the number of items whose content reached its destination
func (r *Report) Relocated() int {
	return r.Succeeded + r.DeleteWarnings
}

// Failed returns the number of items that could not be copied
func (r *Report) Failed() int {
	return r.SourceUnreadable + r.DestinationWriteFailed
}

// Sorted returns the outcomes ordered by item
func (r *Report) Sorted() []Outcome {
	out := make([]Outcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}
