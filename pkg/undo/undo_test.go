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

package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pictriage/pkg/item"
)

func TestLog(t *testing.T) {
	t.Run("pop_on_empty_log", func(t *testing.T) {
		l := New()
		assert.True(t, l.Empty())

		_, ok := l.Pop()
		assert.False(t, ok, "popping an empty log should report nothing")
		_, ok = l.Pop()
		assert.False(t, ok, "repeated pops should stay harmless")
	})

	t.Run("pops_in_reverse_order", func(t *testing.T) {
		l := New()
		l.Push(TagEntry("a.jpg", "Family", nil, 0))
		l.Push(DeleteEntry("b.jpg", nil, 1))
		require.Equal(t, 2, l.Len())

		e, ok := l.Pop()
		require.True(t, ok)
		assert.Equal(t, KindDelete, e.Kind)
		assert.Equal(t, item.ID("b.jpg"), e.Item)
		assert.Equal(t, 1, e.CursorBefore)

		e, ok = l.Pop()
		require.True(t, ok)
		assert.Equal(t, KindTag, e.Kind)
		assert.Equal(t, "Family", e.Category)
		assert.Nil(t, e.Previous)

		assert.True(t, l.Empty())
	})

	t.Run("clear_discards_everything", func(t *testing.T) {
		l := New()
		l.Push(DeleteEntry("a.jpg", nil, 0))
		l.Push(DeleteEntry("b.jpg", nil, 1))
		l.Clear()
		assert.True(t, l.Empty())
		assert.Equal(t, 0, l.Len())
	})
}

func TestEntryKeepsPreviousDisposition(t *testing.T) {
	prev := item.Tagged("Work")
	e := TagEntry("a.jpg", "Family", &prev, 3)

	// mutating the caller's value must not leak into the entry
	prev.Category = "Other"

	require.NotNil(t, e.Previous)
	assert.Equal(t, item.Tagged("Work"), *e.Previous)
	assert.Equal(t, "tag", e.Kind.String())
}
