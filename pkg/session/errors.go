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
	"gitlab.com/tozd/go/errors"
)

// ❌ User-intent errors. The session is left unmodified whenever one of these
// is returned.
var (
	ErrSessionAlreadyComplete = errors.Base("session already complete")
	ErrNothingToUndo          = errors.Base("nothing to undo")
	ErrNoPriorCategory        = errors.Base("no category used yet")
	ErrInvalidIndex           = errors.Base("invalid index")
	ErrEmptyCategory          = errors.Base("category name is empty")
	ErrSessionLoading         = errors.Base("session is loading")
)
