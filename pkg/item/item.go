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

// Package item holds the identifiers and dispositions shared by the session,
// the undo log and the relocation pipeline.
package item

// 🏷️ ID locates one source file. It is opaque to everything except the storage
// collaborator that resolves it.
type ID string

// String returns the raw identifier
func (id ID) String() string {
	return string(id)
}

// 📊 Kind is the kind of decision made for an item
type Kind int

const (
	KindTagged  Kind = iota + 1 // Moved into a category folder on finalize
	KindDeleted                 // Moved into the trash folder on finalize
)

// String returns the status token shown for the kind
func (k Kind) String() string {
	switch k {
	case KindTagged:
		return StatusTagged
	case KindDeleted:
		return StatusDeleted
	default:
		return "Unknown"
	}
}

// Status tokens projected from dispositions
const (
	StatusTagged  = "Tagged"
	StatusDeleted = "Deleted"
)

// 🎯 Disposition is the decision recorded for an item. The zero value is not a
// valid disposition; an undecided item is simply absent from the session map.
type Disposition struct {
	Kind     Kind
	Category string // Only set when Kind is KindTagged
}

// Tagged returns a disposition assigning the item to category
func Tagged(category string) Disposition {
	return Disposition{Kind: KindTagged, Category: category}
}

// Deleted returns a disposition discarding the item
func Deleted() Disposition {
	return Disposition{Kind: KindDeleted}
}

// IsTagged reports whether the item goes to a category folder
func (d Disposition) IsTagged() bool {
	return d.Kind == KindTagged
}

// IsDeleted reports whether the item goes to the trash
func (d Disposition) IsDeleted() bool {
	return d.Kind == KindDeleted
}

// Status returns the display token for the disposition
func (d Disposition) Status() string {
	return d.Kind.String()
}

// String returns a short human description
func (d Disposition) String() string {
	if d.IsTagged() {
		return StatusTagged + "(" + d.Category + ")"
	}
	return d.Status()
}
