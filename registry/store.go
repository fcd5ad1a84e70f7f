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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/hashirwa/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeState is the on-disk layout of the backing file: one logical table of
// submissions keyed by id, plus the id counter so ids are never reused.
type storeState struct {
	NextID      int64         `json:"next_id"`
	Submissions []*Submission `json:"submissions"`
}

// StoreConfig provides the configuration for a Store.
type StoreConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.Bus
	Path         string
}

// Store is the durable submission store. All mutations are serialized under
// a single write lock and persisted in full before they are visible to
// readers, so a crash after a successful call never loses that mutation and
// readers never observe a partially applied update.
type Store struct {
	config  StoreConfig
	logger  *slog.Logger
	metrics struct {
		submissionsCreated  prometheus.Counter
		submissionsByStatus *prometheus.GaugeVec
	}
	eventBus    *event.Bus
	mu          sync.RWMutex
	nextID      int64
	submissions []*Submission
	byID        map[int64]*Submission
}

// NewStore opens the store backed by the file at config.Path. A missing file
// is treated as an empty store; a malformed file is an unrecoverable error.
func NewStore(config StoreConfig) (*Store, error) {
	s := &Store{
		config:   config,
		eventBus: config.EventBus,
		byID:     make(map[int64]*Submission),
		nextID:   1,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		s.logger = config.Logger.With("component", "registry")
	}
	// Init metrics
	promautoFactory := promauto.With(config.PromRegistry)
	s.metrics.submissionsCreated = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "hashirwa_submissions_created_total",
			Help: "total submissions created",
		},
	)
	s.metrics.submissionsByStatus = promautoFactory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hashirwa_submissions",
			Help: "current count of submissions by status",
		},
		[]string{"status"},
	)
	if err := s.load(); err != nil {
		return nil, err
	}
	s.updateMetricsLocked()
	return s, nil
}

// load reads the entire backing file into memory.
func (s *Store) load() error {
	buf, err := os.ReadFile(s.config.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info(
				"no existing store file, starting empty",
				"path", s.config.Path,
			)
			return nil
		}
		return &StorageError{Op: "open", Err: err}
	}
	var state storeState
	if err := json.Unmarshal(buf, &state); err != nil {
		return &StorageError{
			Op:  "open",
			Err: fmt.Errorf("malformed store file %s: %w", s.config.Path, err),
		}
	}
	var maxID int64
	for _, item := range state.Submissions {
		if !item.Status.Valid() {
			return &StorageError{
				Op: "open",
				Err: fmt.Errorf(
					"malformed store file %s: submission %d has unknown status %q",
					s.config.Path,
					item.ID,
					item.Status,
				),
			}
		}
		if item.Status.Terminal() && item.DecidedAt == nil {
			return &StorageError{
				Op: "open",
				Err: fmt.Errorf(
					"malformed store file %s: submission %d is %s without a decision timestamp",
					s.config.Path,
					item.ID,
					item.Status,
				),
			}
		}
		if item.Status == StatusApproved && item.Proof == nil {
			return &StorageError{
				Op: "open",
				Err: fmt.Errorf(
					"malformed store file %s: submission %d is approved without a proof",
					s.config.Path,
					item.ID,
				),
			}
		}
		if _, ok := s.byID[item.ID]; ok {
			return &StorageError{
				Op: "open",
				Err: fmt.Errorf(
					"malformed store file %s: duplicate submission id %d",
					s.config.Path,
					item.ID,
				),
			}
		}
		s.byID[item.ID] = item
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	s.submissions = state.Submissions
	s.nextID = state.NextID
	// Older files may lack the id counter; never reissue a persisted id
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	return nil
}

// persistLocked rewrites the full backing file. The caller must hold the
// write lock. The write goes to a temp file in the same directory which is
// synced and renamed over the old file, so a crash mid-write leaves the
// previous state intact.
func (s *Store) persistLocked() error {
	state := storeState{
		NextID:      s.nextID,
		Submissions: s.submissions,
	}
	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	dir := filepath.Dir(s.config.Path)
	tmpFile, err := os.CreateTemp(dir, ".hashirwa-store-*")
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(buf); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Err: err}
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Err: err}
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, s.config.Path); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// Create validates the params, assigns a fresh id and persists the new
// pending submission before returning it.
func (s *Store) Create(params SubmissionParams) (*Submission, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	item := &Submission{
		ID:            s.nextID,
		ProducerName:  params.ProducerName,
		Product:       params.Product,
		Certification: params.Certification,
		HarvestDate:   params.HarvestDate,
		LotSizeKg:     params.LotSizeKg,
		Prefecture:    params.Prefecture,
		ContactEmail:  params.ContactEmail,
		WalletAddress: params.WalletAddress,
		Notes:         params.Notes,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	s.nextID++
	s.submissions = append(s.submissions, item)
	s.byID[item.ID] = item
	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory state so the failed mutation is not
		// observable
		s.nextID--
		s.submissions = s.submissions[:len(s.submissions)-1]
		delete(s.byID, item.ID)
		s.mu.Unlock()
		return nil, err
	}
	s.updateMetricsLocked()
	ret := item.Copy()
	s.mu.Unlock()
	s.metrics.submissionsCreated.Inc()
	s.logger.Info(
		"submission created",
		"id", ret.ID,
		"producer", ret.ProducerName,
		"product", ret.Product,
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.SubmissionCreatedEventType,
			event.NewEvent(event.SubmissionCreatedEventType, ret.Copy()),
		)
	}
	return ret, nil
}

// Get returns a copy of the submission with the given id.
func (s *Store) Get(id int64) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.Copy(), nil
}

// List returns copies of all submissions in insertion order, optionally
// filtered by status.
func (s *Store) List(statusFilter ...Status) []*Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*Submission, 0, len(s.submissions))
	for _, item := range s.submissions {
		if len(statusFilter) > 0 {
			matched := false
			for _, status := range statusFilter {
				if item.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		ret = append(ret, item.Copy())
	}
	return ret
}

// Update applies the mutator to the submission with the given id and
// persists the full store before the change becomes visible. The mutator
// runs against a copy, so an error from the mutator or a failed write leaves
// the store untouched. Metadata fields of decided submissions are frozen.
func (s *Store) Update(
	id int64,
	mutator func(*Submission) error,
) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orig, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	work := orig.Copy()
	if err := mutator(work); err != nil {
		return nil, err
	}
	if work.ID != orig.ID {
		return nil, &StorageError{
			Op:  "update",
			Err: errors.New("submission id is immutable"),
		}
	}
	if orig.Status.Terminal() && metadataChanged(orig, work) {
		return nil, ErrImmutable
	}
	// Swap the mutated copy in, persist, and roll back on failure
	for i, item := range s.submissions {
		if item.ID == id {
			s.submissions[i] = work
			break
		}
	}
	s.byID[id] = work
	if err := s.persistLocked(); err != nil {
		for i, item := range s.submissions {
			if item.ID == id {
				s.submissions[i] = orig
				break
			}
		}
		s.byID[id] = orig
		return nil, err
	}
	s.updateMetricsLocked()
	return work.Copy(), nil
}

// metadataChanged reports whether any proof-bearing metadata field differs
// between the two records.
func metadataChanged(a, b *Submission) bool {
	return a.Metadata() != b.Metadata()
}

// updateMetricsLocked refreshes the per-status gauge. The caller must hold
// at least the read lock.
func (s *Store) updateMetricsLocked() {
	counts := map[Status]int{
		StatusPending:  0,
		StatusApproved: 0,
		StatusRejected: 0,
	}
	for _, item := range s.submissions {
		counts[item.Status]++
	}
	for status, count := range counts {
		s.metrics.submissionsByStatus.
			WithLabelValues(string(status)).
			Set(float64(count))
	}
}
