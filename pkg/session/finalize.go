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
	"context"

	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"gitlab.com/tozd/go/errors"
)

// 📦 Finalize hands every pending decision to r. The session lock is held only
// while the batch is captured and while the results are applied; relocation
// itself runs unlocked.
//
// Decisions of relocated items are dropped, unless an intent changed them
// while the batch was running. Failed, cancelled and changed items keep their
// decision so Finalize can simply be called again. On success the undo log is
// cleared and the session is complete. A relocator error leaves the session
// untouched.
func (s *Session) Finalize(ctx context.Context, r Relocator) (*relocate.Report, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return nil, errors.WithStack(ErrSessionLoading)
	}
	batch := make(map[item.ID]item.Disposition, len(s.dispositions))
	for id, d := range s.dispositions {
		batch[id] = d
	}
	s.mu.Unlock()

	s.logger.Debug().Int("pending", len(batch)).Msg("finalizing")

	report, err := r.Relocate(ctx, batch)
	if err != nil {
		return nil, errors.Errorf("relocating: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for id, o := range report.Outcomes {
		if !o.Relocated() {
			continue
		}
		if current, ok := s.dispositions[id]; ok && current == batch[id] {
			delete(s.dispositions, id)
			cleared++
		}
	}
	s.log.Clear()
	s.state = StateComplete

	s.logger.Debug().
		Int("cleared", cleared).
		Int("retained", len(s.dispositions)).
		Msg("finalized")

	return report, nil
}
