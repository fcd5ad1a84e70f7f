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

package proof

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		RWAVersion: StandardVersion,
		Standard:   StandardName,
		Issuer:     "Hokkaido Rice Collective",
		Jurisdiction: Jurisdiction{
			Country:    "Japan",
			Prefecture: "Hokkaido",
		},
		Asset: Asset{
			Category:      "Agriculture",
			Product:       "Rice",
			Certification: "JA",
			LotSizeKg:     500,
			HarvestDate:   "2024-09-30",
		},
		Contacts: Contacts{
			Email:  "hello@hokkaido-rice.jp",
			Wallet: "0x567890abcdef1234567890abcdef1234567890ab",
		},
		Notes: "Premium short-grain rice variety",
	}
}

var hexDigestRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestGenerateFormat(t *testing.T) {
	p, err := Generate(testMetadata())
	require.NoError(t, err)
	assert.Regexp(t, hexDigestRe, p.Hash)
	assert.Equal(t, "testnet:"+p.Hash[:16], p.SimTxID)
	assert.Equal(t, StandardName, p.Standard)
	assert.Equal(t, StandardVersion, p.Version)
}

func TestGenerateDeterminism(t *testing.T) {
	first, err := Generate(testMetadata())
	require.NoError(t, err)
	second, err := Generate(testMetadata())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSensitivity(t *testing.T) {
	base, err := Generate(testMetadata())
	require.NoError(t, err)

	md := testMetadata()
	md.Asset.LotSizeKg = 501
	changed, err := Generate(md)
	require.NoError(t, err)
	assert.NotEqual(t, base.Hash, changed.Hash)
	assert.NotEqual(t, base.SimTxID, changed.SimTxID)
}

func TestGenerateEmptyOptionalFields(t *testing.T) {
	md := testMetadata()
	md.Contacts = Contacts{}
	md.Notes = ""
	first, err := Generate(md)
	require.NoError(t, err)
	second, err := Generate(md)
	require.NoError(t, err)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestCanonicalJSONKeyOrder(t *testing.T) {
	ret, err := CanonicalJSON(map[string]any{
		"b": 1,
		"a": "x",
		"c": map[string]any{"z": true, "y": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":{"y":null,"z":true}}`, string(ret))
}

func TestCanonicalJSONStructMatchesMap(t *testing.T) {
	fromStruct, err := CanonicalJSON(testMetadata())
	require.NoError(t, err)
	fromMap, err := CanonicalJSON(map[string]any{
		"rwa_version": 1,
		"standard":    "hashirwa-demo",
		"issuer":      "Hokkaido Rice Collective",
		"jurisdiction": map[string]any{
			"country":    "Japan",
			"prefecture": "Hokkaido",
		},
		"asset": map[string]any{
			"category":      "Agriculture",
			"product":       "Rice",
			"certification": "JA",
			"lot_size_kg":   500,
			"harvest_date":  "2024-09-30",
		},
		"contacts": map[string]any{
			"email":  "hello@hokkaido-rice.jp",
			"wallet": "0x567890abcdef1234567890abcdef1234567890ab",
		},
		"notes": "Premium short-grain rice variety",
	})
	require.NoError(t, err)
	assert.Equal(t, string(fromStruct), string(fromMap))
}

func TestCanonicalJSONNoHTMLEscaping(t *testing.T) {
	ret, err := CanonicalJSON(map[string]any{"a": "<b>&</b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<b>&</b>"}`, string(ret))
}
