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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

import (
	"github.com/blinklabs-io/hashirwa/registry"
)

// SubmissionStore defines the subset of the registry store consumed by the
// API handlers.
type SubmissionStore interface {
	Create(registry.SubmissionParams) (*registry.Submission, error)
	Get(int64) (*registry.Submission, error)
	List(...registry.Status) []*registry.Submission
}

// ReviewEngine defines the admin decision operations consumed by the API
// handlers.
type ReviewEngine interface {
	Approve(int64) (*registry.Submission, error)
	Reject(int64) (*registry.Submission, error)
}
