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
	"context"
	"io"

	"github.com/walteh/pictriage/pkg/item"
)

// 💾 Storage resolves items and writes destinations. Destination paths passed
// to EnsureDir and Create are absolute.
type Storage interface {
	// CheckRoot fails when the backing storage is gone or unauthorized
	CheckRoot(ctx context.Context) error
	// Open returns the full content of the source item
	Open(ctx context.Context, id item.ID) (io.ReadCloser, error)
	// DisplayName returns the item's file name when it can be determined
	DisplayName(ctx context.Context, id item.ID) (string, bool)
	// DeleteSource removes the source item
	DeleteSource(ctx context.Context, id item.ID) error
	// EnsureDir creates the directory if it does not exist
	EnsureDir(ctx context.Context, path string) error
	// Create opens the destination for writing, replacing any existing file
	Create(ctx context.Context, path string) (io.WriteCloser, error)
}

// Aborter is implemented by writers that can discard a partial write instead
// of committing it on Close.
type Aborter interface {
	Abort() error
}

// 📒 Recorder persists where relocated items ended up
type Recorder interface {
	RecordTag(ctx context.Context, destination, category, original string) error
	RecordTrash(ctx context.Context, destination, original string) error
}

// 📈 Progress receives batch progress
type Progress interface {
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

type noopProgress struct{}

func (noopProgress) StartOperation(context.Context, int) {}
func (noopProgress) UpdateProgress(context.Context, int) {}
func (noopProgress) FinishOperation(context.Context) {}
