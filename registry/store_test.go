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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() SubmissionParams {
	return SubmissionParams{
		ProducerName:  "Hokkaido Rice Collective",
		Product:       ProductRice,
		Certification: CertificationJA,
		HarvestDate:   "2024-09-30",
		LotSizeKg:     500,
		Prefecture:    "Hokkaido",
		ContactEmail:  "hello@hokkaido-rice.jp",
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := NewStore(StoreConfig{Path: path})
	require.NoError(t, err)
	return store, path
}

func TestCreate(t *testing.T) {
	store, path := newTestStore(t)
	item, err := store.Create(testParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, StatusPending, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Nil(t, item.DecidedAt)
	assert.Nil(t, item.Proof)

	// Every successful mutation is durable before the call returns
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCreateUniqueIDs(t *testing.T) {
	store, _ := newTestStore(t)
	seen := make(map[int64]bool)
	for range 5 {
		item, err := store.Create(testParams())
		require.NoError(t, err)
		assert.False(t, seen[item.ID], "id %d issued twice", item.ID)
		seen[item.ID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	testDefs := []struct {
		name      string
		mutate    func(*SubmissionParams)
		wantField string
	}{
		{
			name:      "empty producer name",
			mutate:    func(p *SubmissionParams) { p.ProducerName = "  " },
			wantField: "producer_name",
		},
		{
			name:      "unknown product",
			mutate:    func(p *SubmissionParams) { p.Product = "Wheat" },
			wantField: "product",
		},
		{
			name:      "unknown certification",
			mutate:    func(p *SubmissionParams) { p.Certification = "ISO-9001" },
			wantField: "certification",
		},
		{
			name:      "bad harvest date",
			mutate:    func(p *SubmissionParams) { p.HarvestDate = "September 30" },
			wantField: "harvest_date",
		},
		{
			name:      "zero lot size",
			mutate:    func(p *SubmissionParams) { p.LotSizeKg = 0 },
			wantField: "lot_size_kg",
		},
		{
			name:      "negative lot size",
			mutate:    func(p *SubmissionParams) { p.LotSizeKg = -10 },
			wantField: "lot_size_kg",
		},
		{
			name:      "unknown prefecture",
			mutate:    func(p *SubmissionParams) { p.Prefecture = "Atlantis" },
			wantField: "prefecture",
		},
	}
	store, _ := newTestStore(t)
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			params := testParams()
			testDef.mutate(&params)
			_, err := store.Create(params)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, testDef.wantField, validationErr.Field)
		})
	}
	// Nothing should have been created
	assert.Empty(t, store.List())
}

func TestGet(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.Create(testParams())
	require.NoError(t, err)

	first, err := store.Get(created.ID)
	require.NoError(t, err)
	second, err := store.Get(created.ID)
	require.NoError(t, err)
	// Reads between mutations are idempotent
	assert.Equal(t, first, second)
	assert.Equal(t, created.ID, first.ID)
}

func TestGetNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.Create(testParams())
	require.NoError(t, err)

	item, err := store.Get(created.ID)
	require.NoError(t, err)
	item.ProducerName = "mutated"

	fresh, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hokkaido Rice Collective", fresh.ProducerName)
}

func TestListOrderAndFilter(t *testing.T) {
	store, _ := newTestStore(t)
	first, err := store.Create(testParams())
	require.NoError(t, err)
	second, err := store.Create(testParams())
	require.NoError(t, err)

	all := store.List()
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	_, err = store.Update(second.ID, func(item *Submission) error {
		now := time.Now().UTC()
		item.Status = StatusRejected
		item.DecidedAt = &now
		return nil
	})
	require.NoError(t, err)

	pending := store.List(StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
	rejected := store.List(StatusRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, second.ID, rejected[0].ID)
	assert.Empty(t, store.List(StatusApproved))
}

func TestUpdateNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Update(999, func(item *Submission) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMutatorErrorLeavesStoreUntouched(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.Create(testParams())
	require.NoError(t, err)

	wantErr := &ValidationError{Field: "test", Reason: "test"}
	_, err = store.Update(created.ID, func(item *Submission) error {
		item.Status = StatusApproved
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	fresh, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fresh.Status)
}

func TestDecidedMetadataImmutable(t *testing.T) {
	store, _ := newTestStore(t)
	created, err := store.Create(testParams())
	require.NoError(t, err)
	_, err = store.Update(created.ID, func(item *Submission) error {
		now := time.Now().UTC()
		item.Status = StatusApproved
		item.DecidedAt = &now
		return nil
	})
	require.NoError(t, err)

	_, err = store.Update(created.ID, func(item *Submission) error {
		item.LotSizeKg = 9999
		return nil
	})
	assert.ErrorIs(t, err, ErrImmutable)

	fresh, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), fresh.LotSizeKg)
}

func TestReopenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := NewStore(StoreConfig{Path: path})
	require.NoError(t, err)
	first, err := store.Create(testParams())
	require.NoError(t, err)
	second, err := store.Create(testParams())
	require.NoError(t, err)

	reopened, err := NewStore(StoreConfig{Path: path})
	require.NoError(t, err)
	items := reopened.List()
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)

	// The id counter survives a reopen, so ids are never reused
	third, err := reopened.Create(testParams())
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, third.ID)
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	store, err := NewStore(StoreConfig{
		Path: filepath.Join(t.TempDir(), "does-not-exist.json"),
	})
	require.NoError(t, err)
	assert.Empty(t, store.List())
}

func TestMalformedFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("not json{"), 0o644))
	_, err := NewStore(StoreConfig{Path: path})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "open", storageErr.Op)
}

func TestUnknownStatusFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"next_id":2,"submissions":[{"id":1,"status":"bogus"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := NewStore(StoreConfig{Path: path})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestOpenRecomputesIDCounter(t *testing.T) {
	// Files written before the id counter existed carry submissions but
	// no next_id; persisted ids must still never be reissued
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"submissions":[{"id":1,"producer_name":"Hokkaido Rice Collective","product":"Rice","certification":"JA","harvest_date":"2024-09-30","lot_size_kg":500,"prefecture":"Hokkaido","status":"pending","created_at":"2024-01-01T00:00:00Z"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	store, err := NewStore(StoreConfig{Path: path})
	require.NoError(t, err)

	item, err := store.Create(testParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.ID)
	existing, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Hokkaido Rice Collective", existing.ProducerName)
}

func TestDuplicateIDFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"next_id":2,"submissions":[{"id":1,"status":"pending"},{"id":1,"status":"pending"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := NewStore(StoreConfig{Path: path})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "open", storageErr.Op)
}

func TestDecidedWithoutTimestampFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"next_id":2,"submissions":[{"id":1,"status":"rejected"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := NewStore(StoreConfig{Path: path})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "open", storageErr.Op)
}

func TestApprovedWithoutProofFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"next_id":2,"submissions":[{"id":1,"status":"approved","decided_at":"2024-01-02T00:00:00Z"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := NewStore(StoreConfig{Path: path})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "open", storageErr.Op)
}
