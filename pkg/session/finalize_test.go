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

package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"github.com/walteh/pictriage/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// 🧪 fakeRelocator reports a fixed outcome kind per item and can run a hook
// while the session lock is released
type fakeRelocator struct {
	kinds  map[item.ID]relocate.OutcomeKind
	err    error
	during func()
	seen   map[item.ID]item.Disposition
}

func (f *fakeRelocator) Relocate(ctx context.Context, batch map[item.ID]item.Disposition) (*relocate.Report, error) {
	f.seen = batch
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	report := &relocate.Report{Outcomes: map[item.ID]relocate.Outcome{}}
	for id, d := range batch {
		kind, ok := f.kinds[id]
		if !ok {
			kind = relocate.OutcomeSuccess
		}
		report.Outcomes[id] = relocate.Outcome{Item: id, Disposition: d, Kind: kind}
	}
	return report, nil
}

func TestFinalizeClearsRelocatedOnly(t *testing.T) {
	s := started(t, "1", "2", "3")
	for i := 0; i < 3; i++ {
		_, err := s.Tag("Work")
		require.NoError(t, err)
	}

	r := &fakeRelocator{kinds: map[item.ID]relocate.OutcomeKind{
		"2": relocate.OutcomeSourceUnreadable,
	}}
	report, err := s.Finalize(testContext(t), r)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Len(t, r.seen, 3)

	snap := s.Snapshot()
	assert.Equal(t, map[item.ID]item.Disposition{"2": item.Tagged("Work")}, snap.Dispositions,
		"the failed item keeps its decision for a retry")
	assert.True(t, snap.IsComplete)
	assert.False(t, snap.CanUndo, "finalize is an undo boundary")

	_, err = s.Undo()
	assert.ErrorIs(t, err, session.ErrNothingToUndo)
}

func TestFinalizeRetryIsSafe(t *testing.T) {
	s := started(t, "1", "2")
	_, err := s.Delete()
	require.NoError(t, err)
	_, err = s.Tag("Keep")
	require.NoError(t, err)

	first := &fakeRelocator{kinds: map[item.ID]relocate.OutcomeKind{"1": relocate.OutcomeCancelled}}
	_, err = s.Finalize(testContext(t), first)
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Dispositions, 1)

	second := &fakeRelocator{}
	_, err = s.Finalize(testContext(t), second)
	require.NoError(t, err)
	assert.Equal(t, map[item.ID]item.Disposition{"1": item.Deleted()}, second.seen)
	assert.Empty(t, s.Snapshot().Dispositions)
}

func TestFinalizeDeleteWarningCountsAsDone(t *testing.T) {
	s := started(t, "1")
	_, err := s.Tag("Work")
	require.NoError(t, err)

	r := &fakeRelocator{kinds: map[item.ID]relocate.OutcomeKind{"1": relocate.OutcomeSourceDeleteFailed}}
	_, err = s.Finalize(testContext(t), r)
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Dispositions)
}

func TestFinalizeSystemicErrorLeavesSession(t *testing.T) {
	s := started(t, "1", "2")
	_, err := s.Tag("Work")
	require.NoError(t, err)
	before := s.Snapshot()

	r := &fakeRelocator{err: errors.Errorf("%w: unmounted", relocate.ErrRootUnavailable)}
	report, err := s.Finalize(testContext(t), r)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, relocate.ErrRootUnavailable)
	assert.Equal(t, before, s.Snapshot())
}

func TestFinalizeKeepsDecisionsChangedMeanwhile(t *testing.T) {
	s := started(t, "1", "2")
	_, err := s.Tag("Work")
	require.NoError(t, err)

	r := &fakeRelocator{during: func() {
		// runs while relocation is in flight and the lock is free
		_, err := s.JumpTo(0)
		require.NoError(t, err)
		_, err = s.Tag("Family")
		require.NoError(t, err)
	}}
	_, err = s.Finalize(testContext(t), r)
	require.NoError(t, err)

	assert.Equal(t, map[item.ID]item.Disposition{"1": item.Tagged("Work")}, r.seen)
	assert.Equal(t, map[item.ID]item.Disposition{"1": item.Tagged("Family")}, s.Snapshot().Dispositions)
}

func TestFinalizeWhileLoading(t *testing.T) {
	s := session.New(testContext(t))
	_, err := s.Finalize(testContext(t), &fakeRelocator{})
	assert.ErrorIs(t, err, session.ErrSessionLoading)
}
