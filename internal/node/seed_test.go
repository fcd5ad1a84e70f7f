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

package node

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/hashirwa/registry"
	"github.com/blinklabs-io/hashirwa/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	store, err := registry.NewStore(registry.StoreConfig{
		Path: filepath.Join(t.TempDir(), "db.json"),
	})
	require.NoError(t, err)
	engine := workflow.NewEngine(workflow.EngineConfig{
		Store: store,
	})
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	require.NoError(t, seedDemoData(store, engine, logger))

	items := store.List(registry.StatusApproved)
	require.Len(t, items, len(demoSubmissions))
	for _, item := range items {
		require.NotNil(t, item.Proof)
		assert.Len(t, item.Proof.Hash, 64)
		assert.NotNil(t, item.DecidedAt)
	}

	// Seeding a non-empty store is a no-op
	require.NoError(t, seedDemoData(store, engine, logger))
	assert.Len(t, store.List(), len(demoSubmissions))
}
