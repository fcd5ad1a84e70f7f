// Copyright 2026 Blink Labs Software
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

package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no submission exists for the requested id.
var ErrNotFound = errors.New("submission not found")

// ErrImmutable is returned when a mutator attempts to change the
// proof-bearing metadata fields of a decided submission.
var ErrImmutable = errors.New("decided submission metadata is immutable")

// ValidationError reports a malformed or missing creation field. The caller
// must fix the input and resubmit; it is never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s: %s", e.Field, e.Reason)
}

// StorageError reports an unreadable or unwritable backing file. It is fatal
// at store open for corrupt state and surfaced as a failed operation for
// write failures at runtime.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
