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

// Package session implements the triage state machine: a cursor over an
// ordered list of items, one decision per item, a linear undo log and the
// finalize step that hands the decisions to the relocation pipeline.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/undo"
	"gitlab.com/tozd/go/errors"
)

// 📂 Lister supplies the ordered items of a folder
type Lister interface {
	List(ctx context.Context, folder string) ([]item.ID, error)
}

// 🚚 Relocator carries out a batch of decisions
type Relocator interface {
	Relocate(ctx context.Context, batch map[item.ID]item.Disposition) (*relocate.Report, error)
}

// 🎯 Session owns the triage state of one folder. All methods are safe for
// concurrent use; intents are applied in the order they acquire the lock.
type Session struct {
	mu     sync.Mutex
	logger zerolog.Logger

	id           string
	state        State
	items        []item.ID
	cursor       int
	frontier     int
	dispositions map[item.ID]item.Disposition
	log          *undo.Log
	lastCategory string
}

// 🏭 New creates a session in the loading state. The logger is taken from ctx.
func New(ctx context.Context) *Session {
	id := ulid.Make().String()
	return &Session{
		logger:       zerolog.Ctx(ctx).With().Str("session", id).Logger(),
		id:           id,
		state:        StateLoading,
		dispositions: map[item.ID]item.Disposition{},
		log:          undo.New(),
	}
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Load lists folder through l and starts the session with the result. The
// listing runs without holding the session lock.
func (s *Session) Load(ctx context.Context, l Lister, folder string) (Snapshot, error) {
	s.mu.Lock()
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	s.logger.Debug().Str("folder", folder).Msg("loading folder")

	items, err := l.List(ctx, folder)
	if err != nil {
		s.mu.Lock()
		s.state = prev
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, errors.Errorf("listing %s: %w", folder, err)
	}

	return s.Start(items), nil
}

// 🚀 Start replaces the items and resets every decision. An empty list
// completes the session immediately.
func (s *Session) Start(items []item.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[item.ID]struct{}, len(items))
	s.items = make([]item.ID, 0, len(items))
	for _, id := range items {
		if _, dup := seen[id]; dup {
			s.logger.Debug().Str("item", id.String()).Msg("dropping duplicate item")
			continue
		}
		seen[id] = struct{}{}
		s.items = append(s.items, id)
	}

	s.cursor = 0
	s.frontier = 0
	s.dispositions = map[item.ID]item.Disposition{}
	s.log.Clear()
	s.lastCategory = ""
	s.state = StateActive
	if len(s.items) == 0 {
		s.state = StateComplete
	}

	s.logger.Debug().Int("items", len(s.items)).Str("state", s.state.String()).Msg("session started")
	return s.snapshotLocked()
}

// CurrentItem returns the item at the cursor
func (s *Session) CurrentItem() (item.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return "", false
	}
	return s.items[s.cursor], true
}

// 🏷️ Tag assigns the current item to category and advances
func (s *Session) Tag(category string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tagLocked(category)
}

// QuickTag tags the current item with the last category used
func (s *Session) QuickTag() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkActiveLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if s.lastCategory == "" {
		return s.snapshotLocked(), errors.WithStack(ErrNoPriorCategory)
	}
	return s.tagLocked(s.lastCategory)
}

func (s *Session) tagLocked(category string) (Snapshot, error) {
	category = strings.TrimSpace(category)
	if err := s.checkActiveLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if category == "" {
		return s.snapshotLocked(), errors.WithStack(ErrEmptyCategory)
	}

	current := s.items[s.cursor]
	s.log.Push(undo.TagEntry(current, category, s.previousLocked(current), s.cursor))
	s.dispositions[current] = item.Tagged(category)
	s.lastCategory = category

	s.logger.Debug().Str("item", current.String()).Str("category", category).Int("cursor", s.cursor).Msg("tagged")
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

// 🗑️ Delete discards the current item and advances
func (s *Session) Delete() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActiveLocked(); err != nil {
		return s.snapshotLocked(), err
	}

	current := s.items[s.cursor]
	s.log.Push(undo.DeleteEntry(current, s.previousLocked(current), s.cursor))
	s.dispositions[current] = item.Deleted()

	s.logger.Debug().Str("item", current.String()).Int("cursor", s.cursor).Msg("deleted")
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

// ↩️ Undo reverses the most recent tag or delete, restoring the cursor it was
// taken at. It reopens a completed session.
func (s *Session) Undo() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateLoading {
		return s.snapshotLocked(), errors.WithStack(ErrSessionLoading)
	}

	e, ok := s.log.Pop()
	if !ok {
		return s.snapshotLocked(), errors.WithStack(ErrNothingToUndo)
	}

	if e.Previous != nil {
		s.dispositions[e.Item] = *e.Previous
	} else {
		delete(s.dispositions, e.Item)
	}
	s.cursor = e.CursorBefore
	s.state = StateActive

	s.logger.Debug().Str("item", e.Item.String()).Str("action", e.Kind.String()).Int("cursor", s.cursor).Msg("undone")
	return s.snapshotLocked(), nil
}

// JumpTo moves the cursor to an already visited position without changing
// any decision
func (s *Session) JumpTo(index int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActiveLocked(); err != nil {
		return s.snapshotLocked(), err
	}

	limit := s.frontier
	if limit > len(s.items)-1 {
		limit = len(s.items) - 1
	}
	if index < 0 || index > limit {
		return s.snapshotLocked(), errors.Errorf("%w: %d not in [0, %d]", ErrInvalidIndex, index, limit)
	}

	s.cursor = index
	s.logger.Debug().Int("cursor", s.cursor).Msg("jumped")
	return s.snapshotLocked(), nil
}

// 📸 Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) checkActiveLocked() error {
	switch s.state {
	case StateLoading:
		return errors.WithStack(ErrSessionLoading)
	case StateComplete:
		return errors.WithStack(ErrSessionAlreadyComplete)
	}
	if s.cursor >= len(s.items) {
		return errors.WithStack(ErrSessionAlreadyComplete)
	}
	return nil
}

func (s *Session) previousLocked(id item.ID) *item.Disposition {
	d, ok := s.dispositions[id]
	if !ok {
		return nil
	}
	return &d
}

func (s *Session) advanceLocked() {
	s.cursor++
	if s.cursor > s.frontier {
		s.frontier = s.cursor
	}
	if s.cursor >= len(s.items) {
		s.state = StateComplete
		s.logger.Debug().Msg("session complete")
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:           s.id,
		State:        s.state,
		Items:        append([]item.ID(nil), s.items...),
		Cursor:       s.cursor,
		Dispositions: make(map[item.ID]item.Disposition, len(s.dispositions)),
		StatusLabels: make(map[item.ID]string, len(s.dispositions)),
		IsComplete:   s.state == StateComplete,
		CanUndo:      !s.log.Empty(),
		LastCategory: s.lastCategory,
	}
	for id, d := range s.dispositions {
		snap.Dispositions[id] = d
		snap.StatusLabels[id] = d.Status()
	}
	if s.state == StateActive && s.cursor < len(s.items) {
		snap.Current = s.items[s.cursor]
	}
	return snap
}
