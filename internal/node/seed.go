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
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/hashirwa/registry"
	"github.com/blinklabs-io/hashirwa/workflow"
)

var demoSubmissions = []registry.SubmissionParams{
	{
		ProducerName:  "Shizuoka Green Tea Co.",
		Prefecture:    "Shizuoka",
		Product:       registry.ProductGreenTea,
		Certification: registry.CertificationJASOrganic,
		LotSizeKg:     500,
		HarvestDate:   "2024-05-15",
		ContactEmail:  "info@shizuoka-tea.jp",
		WalletAddress: "0x1234567890abcdef1234567890abcdef12345678",
		Notes:         "Premium grade sencha from mountain slopes",
	},
	{
		ProducerName:  "Aomori Apple Farmers Union",
		Prefecture:    "Aomori",
		Product:       registry.ProductApple,
		Certification: registry.CertificationJGAP,
		LotSizeKg:     1000,
		HarvestDate:   "2024-10-20",
		ContactEmail:  "contact@aomori-apples.jp",
		WalletAddress: "0xabcdef1234567890abcdef1234567890abcdef12",
		Notes:         "Fuji apples from certified organic farms",
	},
	{
		ProducerName:  "Hokkaido Rice Collective",
		Prefecture:    "Hokkaido",
		Product:       registry.ProductRice,
		Certification: registry.CertificationJA,
		LotSizeKg:     2000,
		HarvestDate:   "2024-09-30",
		ContactEmail:  "hello@hokkaido-rice.jp",
		WalletAddress: "0x567890abcdef1234567890abcdef1234567890ab",
		Notes:         "Premium short-grain rice variety",
	},
}

// seedDemoData populates an empty store with a few approved demo listings.
// The records go through the normal create/approve path so their proofs are
// real.
func seedDemoData(
	store *registry.Store,
	engine *workflow.Engine,
	logger *slog.Logger,
) error {
	if len(store.List()) > 0 {
		return nil
	}
	for _, params := range demoSubmissions {
		item, err := store.Create(params)
		if err != nil {
			return fmt.Errorf("creating %q: %w", params.ProducerName, err)
		}
		if _, err := engine.Approve(item.ID); err != nil {
			return fmt.Errorf("approving %q: %w", params.ProducerName, err)
		}
	}
	logger.Info(
		fmt.Sprintf("seeded %d demo submissions", len(demoSubmissions)),
		"component", "node",
	)
	return nil
}
