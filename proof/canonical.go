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
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalJSON encodes v as canonical JSON: object keys sorted bytewise at
// every nesting level, no insignificant whitespace, HTML escaping disabled,
// integers rendered without exponent or fraction. The output is the exact
// byte sequence covered by the proof hash, so any change here is a breaking
// change to the standard.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	// Round-trip through generic maps. encoding/json sorts map keys on
	// output, which gives us the canonical key ordering. UseNumber keeps
	// numeric literals intact rather than converting through float64.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	// Encoder appends a trailing newline that is not part of the canonical
	// form.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
