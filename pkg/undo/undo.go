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

// Package undo implements the linear undo log of a triage session.
package undo

import (
	"github.com/walteh/pictriage/pkg/item"
)

// 🔁 Kind discriminates the two reversible actions
type Kind int

const (
	KindTag Kind = iota + 1
	KindDelete
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 📝 Entry records one disposition-changing intent so that it can be reversed
// exactly. Entries are never mutated once pushed.
type Entry struct {
	Kind         Kind
	Item         item.ID
	Category     string            // Category applied by a tag action
	Previous     *item.Disposition // Disposition the item had before the action, nil if undecided
	CursorBefore int               // Cursor position the action was taken at
}

// TagEntry builds the entry for tagging it with category
func TagEntry(it item.ID, category string, previous *item.Disposition, cursorBefore int) Entry {
	return Entry{
		Kind:         KindTag,
		Item:         it,
		Category:     category,
		Previous:     clone(previous),
		CursorBefore: cursorBefore,
	}
}

// DeleteEntry builds the entry for discarding it
func DeleteEntry(it item.ID, previous *item.Disposition, cursorBefore int) Entry {
	return Entry{
		Kind:         KindDelete,
		Item:         it,
		Previous:     clone(previous),
		CursorBefore: cursorBefore,
	}
}

func clone(d *item.Disposition) *item.Disposition {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

// 📚 Log is a LIFO stack of entries. It is not safe for concurrent use; the
// owning session serializes access.
type Log struct {
	entries []Entry
}

// New creates an empty log
func New() *Log {
	return &Log{}
}

// Push appends an entry to the top of the log
func (l *Log) Push(e Entry) {
	l.entries = append(l.entries, e)
}

// Pop removes and returns the most recent entry
func (l *Log) Pop() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	last := len(l.entries) - 1
	e := l.entries[last]
	l.entries[last] = Entry{}
	l.entries = l.entries[:last]
	return e, true
}

// Empty reports whether there is nothing to undo
func (l *Log) Empty() bool {
	return len(l.entries) == 0
}

// Len returns the number of entries
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear discards every entry
func (l *Log) Clear() {
	l.entries = nil
}
