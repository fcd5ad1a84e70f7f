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

// Package workflow enforces the submission review state machine: pending
// submissions move exactly once to approved or rejected, approval attaches a
// deterministic proof of listing, and decided submissions are terminal.
package workflow

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/hashirwa/event"
	"github.com/blinklabs-io/hashirwa/proof"
	"github.com/blinklabs-io/hashirwa/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InvalidTransitionError is returned when a decision is attempted on a
// submission that is not pending. The current status is included so callers
// can distinguish "already decided" from other failures.
type InvalidTransitionError struct {
	ID     int64
	Status registry.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf(
		"invalid transition: submission %d has status %q, expected %q",
		e.ID,
		e.Status,
		registry.StatusPending,
	)
}

// EngineConfig provides the configuration for an Engine.
type EngineConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.Bus
	Store        *registry.Store
}

// Engine applies admin decisions to the submission store.
type Engine struct {
	config  EngineConfig
	logger  *slog.Logger
	store   *registry.Store
	metrics struct {
		decisions *prometheus.CounterVec
	}
	eventBus *event.Bus
}

// NewEngine creates a workflow engine on top of the given store.
func NewEngine(config EngineConfig) *Engine {
	e := &Engine{
		config:   config,
		store:    config.Store,
		eventBus: config.EventBus,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		e.logger = config.Logger.With("component", "workflow")
	}
	promautoFactory := promauto.With(config.PromRegistry)
	e.metrics.decisions = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hashirwa_decisions_total",
			Help: "total admin decisions by verdict",
		},
		[]string{"verdict"},
	)
	return e
}

// Approve transitions a pending submission to approved, stamping the
// decision timestamp and attaching the proof computed over the metadata
// snapshot. Status, timestamp and proof are persisted as one atomic update.
func (e *Engine) Approve(id int64) (*registry.Submission, error) {
	updated, err := e.store.Update(id, func(item *registry.Submission) error {
		if item.Status != registry.StatusPending {
			return &InvalidTransitionError{ID: id, Status: item.Status}
		}
		itemProof, err := proof.Generate(item.Metadata())
		if err != nil {
			return fmt.Errorf("generating proof: %w", err)
		}
		now := time.Now().UTC()
		item.Status = registry.StatusApproved
		item.DecidedAt = &now
		item.Proof = &itemProof
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.decisions.WithLabelValues("approve").Inc()
	e.logger.Info(
		"submission approved",
		"id", updated.ID,
		"proof_hash", updated.Proof.Hash,
	)
	if e.eventBus != nil {
		e.eventBus.Publish(
			event.SubmissionApprovedEventType,
			event.NewEvent(event.SubmissionApprovedEventType, updated.Copy()),
		)
	}
	return updated, nil
}

// Reject transitions a pending submission to rejected with a decision
// timestamp. No proof is generated.
func (e *Engine) Reject(id int64) (*registry.Submission, error) {
	updated, err := e.store.Update(id, func(item *registry.Submission) error {
		if item.Status != registry.StatusPending {
			return &InvalidTransitionError{ID: id, Status: item.Status}
		}
		now := time.Now().UTC()
		item.Status = registry.StatusRejected
		item.DecidedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.decisions.WithLabelValues("reject").Inc()
	e.logger.Info(
		"submission rejected",
		"id", updated.ID,
	)
	if e.eventBus != nil {
		e.eventBus.Publish(
			event.SubmissionRejectedEventType,
			event.NewEvent(event.SubmissionRejectedEventType, updated.Copy()),
		)
	}
	return updated, nil
}
