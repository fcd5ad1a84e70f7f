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

// Package registry implements the durable submission store: the single
// writer and reader of persisted listing state. The whole store is read
// into memory at open and rewritten in full on every mutation.
package registry

import (
	"strings"
	"time"

	"github.com/blinklabs-io/hashirwa/proof"
)

// Status is the review status of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid returns true if the Status is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transition is permitted from the
// status
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Product is the product category of a submission.
type Product string

const (
	ProductRice       Product = "Rice"
	ProductGreenTea   Product = "Green Tea"
	ProductApple      Product = "Apple"
	ProductStrawberry Product = "Strawberry"
	ProductVegetable  Product = "Vegetable"
	ProductFruit      Product = "Fruit"
	ProductOther      Product = "Other"
)

// Valid returns true if the Product is a known product category
func (p Product) Valid() bool {
	switch p {
	case ProductRice, ProductGreenTea, ProductApple, ProductStrawberry,
		ProductVegetable, ProductFruit, ProductOther:
		return true
	default:
		return false
	}
}

// Certification is the agricultural certification attached to a submission.
type Certification string

const (
	CertificationJA         Certification = "JA"
	CertificationJGAP       Certification = "JGAP"
	CertificationJASOrganic Certification = "JAS Organic"
	CertificationOther      Certification = "Other"
)

// Valid returns true if the Certification is a known certification
func (c Certification) Valid() bool {
	switch c {
	case CertificationJA, CertificationJGAP, CertificationJASOrganic,
		CertificationOther:
		return true
	default:
		return false
	}
}

// Prefecture is a Japanese administrative division, romanized.
type Prefecture string

var prefectures = map[Prefecture]struct{}{
	"Hokkaido": {}, "Aomori": {}, "Iwate": {}, "Miyagi": {},
	"Akita": {}, "Yamagata": {}, "Fukushima": {}, "Ibaraki": {},
	"Tochigi": {}, "Gunma": {}, "Saitama": {}, "Chiba": {},
	"Tokyo": {}, "Kanagawa": {}, "Niigata": {}, "Toyama": {},
	"Ishikawa": {}, "Fukui": {}, "Yamanashi": {}, "Nagano": {},
	"Gifu": {}, "Shizuoka": {}, "Aichi": {}, "Mie": {},
	"Shiga": {}, "Kyoto": {}, "Osaka": {}, "Hyogo": {},
	"Nara": {}, "Wakayama": {}, "Tottori": {}, "Shimane": {},
	"Okayama": {}, "Hiroshima": {}, "Yamaguchi": {}, "Tokushima": {},
	"Kagawa": {}, "Ehime": {}, "Kochi": {}, "Fukuoka": {},
	"Saga": {}, "Nagasaki": {}, "Kumamoto": {}, "Oita": {},
	"Miyazaki": {}, "Kagoshima": {}, "Okinawa": {},
}

// Valid returns true if the Prefecture is one of the 47 Japanese
// prefectures
func (p Prefecture) Valid() bool {
	_, ok := prefectures[p]
	return ok
}

const harvestDateLayout = "2006-01-02"

// SubmissionParams is the validated field set supplied by the onboarding
// collaborator when creating a submission.
type SubmissionParams struct {
	ProducerName  string        `json:"producer_name"`
	Product       Product       `json:"product"`
	Certification Certification `json:"certification"`
	HarvestDate   string        `json:"harvest_date"`
	LotSizeKg     int64         `json:"lot_size_kg"`
	Prefecture    Prefecture    `json:"prefecture"`
	ContactEmail  string        `json:"contact_email"`
	WalletAddress string        `json:"wallet_address"`
	Notes         string        `json:"notes"`
}

// Validate checks the params against the field constraints enforced at
// creation. The first failing field is reported.
func (p *SubmissionParams) Validate() error {
	if strings.TrimSpace(p.ProducerName) == "" {
		return &ValidationError{
			Field:  "producer_name",
			Reason: "must not be empty",
		}
	}
	if !p.Product.Valid() {
		return &ValidationError{
			Field:  "product",
			Reason: "unknown product category: " + string(p.Product),
		}
	}
	if !p.Certification.Valid() {
		return &ValidationError{
			Field:  "certification",
			Reason: "unknown certification: " + string(p.Certification),
		}
	}
	if _, err := time.Parse(harvestDateLayout, p.HarvestDate); err != nil {
		return &ValidationError{
			Field:  "harvest_date",
			Reason: "must be a valid YYYY-MM-DD date",
		}
	}
	if p.LotSizeKg <= 0 {
		return &ValidationError{
			Field:  "lot_size_kg",
			Reason: "must be a positive quantity",
		}
	}
	if !p.Prefecture.Valid() {
		return &ValidationError{
			Field:  "prefecture",
			Reason: "unknown prefecture: " + string(p.Prefecture),
		}
	}
	return nil
}

// Submission is a producer listing tracked through the review lifecycle.
type Submission struct {
	ID            int64         `json:"id"`
	ProducerName  string        `json:"producer_name"`
	Product       Product       `json:"product"`
	Certification Certification `json:"certification"`
	HarvestDate   string        `json:"harvest_date"`
	LotSizeKg     int64         `json:"lot_size_kg"`
	Prefecture    Prefecture    `json:"prefecture"`
	ContactEmail  string        `json:"contact_email"`
	WalletAddress string        `json:"wallet_address"`
	Notes         string        `json:"notes"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	Proof         *proof.Proof  `json:"proof,omitempty"`
}

// Metadata returns the public metadata snapshot covered by the proof hash.
func (s *Submission) Metadata() proof.Metadata {
	return proof.Metadata{
		RWAVersion: proof.StandardVersion,
		Standard:   proof.StandardName,
		Issuer:     s.ProducerName,
		Jurisdiction: proof.Jurisdiction{
			Country:    "Japan",
			Prefecture: string(s.Prefecture),
		},
		Asset: proof.Asset{
			Category:      "Agriculture",
			Product:       string(s.Product),
			Certification: string(s.Certification),
			LotSizeKg:     s.LotSizeKg,
			HarvestDate:   s.HarvestDate,
		},
		Contacts: proof.Contacts{
			Email:  s.ContactEmail,
			Wallet: s.WalletAddress,
		},
		Notes: s.Notes,
	}
}

// Copy returns a deep copy so callers never alias store-owned memory.
func (s *Submission) Copy() *Submission {
	ret := *s
	if s.DecidedAt != nil {
		t := *s.DecidedAt
		ret.DecidedAt = &t
	}
	if s.Proof != nil {
		p := *s.Proof
		ret.Proof = &p
	}
	return &ret
}
