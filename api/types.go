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
	"time"

	"github.com/blinklabs-io/hashirwa/proof"
	"github.com/blinklabs-io/hashirwa/registry"
)

// RootResponse is returned by GET /.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// SubmissionResponse represents a submission in API responses.
type SubmissionResponse struct {
	ID            int64        `json:"id"`
	ProducerName  string       `json:"producer_name"`
	Product       string       `json:"product"`
	Certification string       `json:"certification"`
	HarvestDate   string       `json:"harvest_date"`
	LotSizeKg     int64        `json:"lot_size_kg"`
	Prefecture    string       `json:"prefecture"`
	ContactEmail  string       `json:"contact_email,omitempty"`
	WalletAddress string       `json:"wallet_address,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	DecidedAt     *time.Time   `json:"decided_at,omitempty"`
	Proof         *proof.Proof `json:"proof,omitempty"`
}

// MetadataResponse is the downloadable metadata document for a submission,
// including its proof when approved.
type MetadataResponse struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status"`
	Metadata  proof.Metadata `json:"metadata"`
	Proof     *proof.Proof   `json:"proof,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DecidedAt *time.Time     `json:"decided_at,omitempty"`
}

func newSubmissionResponse(item *registry.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            item.ID,
		ProducerName:  item.ProducerName,
		Product:       string(item.Product),
		Certification: string(item.Certification),
		HarvestDate:   item.HarvestDate,
		LotSizeKg:     item.LotSizeKg,
		Prefecture:    string(item.Prefecture),
		ContactEmail:  item.ContactEmail,
		WalletAddress: item.WalletAddress,
		Notes:         item.Notes,
		Status:        string(item.Status),
		CreatedAt:     item.CreatedAt,
		DecidedAt:     item.DecidedAt,
		Proof:         item.Proof,
	}
}

func newMetadataResponse(item *registry.Submission) MetadataResponse {
	return MetadataResponse{
		ID:        item.ID,
		Status:    string(item.Status),
		Metadata:  item.Metadata(),
		Proof:     item.Proof,
		CreatedAt: item.CreatedAt,
		DecidedAt: item.DecidedAt,
	}
}
