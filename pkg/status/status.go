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
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/pictriage/pkg/item"
	"github.com/walteh/pictriage/pkg/relocate"
	"gitlab.com/tozd/go/errors"
)

// 📈 StatusReporter tracks item outcomes and reports progress
type StatusReporter interface {
	// Outcome tracking
	TrackOutcome(ctx context.Context, o relocate.Outcome)
	TrackReport(ctx context.Context, r *relocate.Report)
	TrackFailure(ctx context.Context, err error)
	GetOutcome(ctx context.Context, id item.ID) (relocate.Outcome, error)

	// Progress reporting
	relocate.Progress
}

// 🔧 Tracker implements StatusReporter on top of a zerolog logger
type Tracker struct {
	logger    *zerolog.Logger // Logger for status updates
	formatter OutcomeFormatter

	mu       sync.RWMutex
	outcomes map[item.ID]relocate.Outcome

	total     int
	processed int
	finished  bool
}

var _ StatusReporter = (*Tracker)(nil)

// 🏭 New creates a new tracker
func New(logger *zerolog.Logger) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		logger:    logger,
		formatter: NewDefaultOutcomeFormatter(),
		outcomes:  make(map[item.ID]relocate.Outcome),
	}
}

func (t *Tracker) TrackOutcome(ctx context.Context, o relocate.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.outcomes[o.Item] = o
	ev := t.logger.Debug()
	if !o.Relocated() {
		ev = t.logger.Warn().Err(o.Err)
	}
	ev.Str("item", o.Item.String()).Str("outcome", o.Kind.String()).Msg(t.formatter.FormatOutcome(o))
}

func (t *Tracker) GetOutcome(ctx context.Context, id item.ID) (relocate.Outcome, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	o, ok := t.outcomes[id]
	if !ok {
		return relocate.Outcome{}, errors.Errorf("item not tracked: %s", id)
	}
	return o, nil
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	t.finished = false
	t.logger.Info().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// workers report out of order
	if processed < t.processed {
		return
	}
	t.processed = processed
	t.logger.Debug().
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.finished = true
	t.logger.Info().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
}

// Progress returns the last reported position and whether the batch is done
func (t *Tracker) Progress() (processed, total int, finished bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.processed, t.total, t.finished
}

// TrackReport records every outcome of a finished batch
func (t *Tracker) TrackReport(ctx context.Context, r *relocate.Report) {
	if r == nil {
		return
	}
	for _, o := range r.Sorted() {
		t.TrackOutcome(ctx, o)
	}
}

// TrackFailure records a batch that could not run at all. Outcomes of
// earlier batches are kept.
func (t *Tracker) TrackFailure(ctx context.Context, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.finished = true
	t.logger.Error().Err(err).Msg(t.formatter.FormatError(err))
}
