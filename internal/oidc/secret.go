// Copyright 2026 The OpenTrusty Authors
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

package oidc

import "crypto/sha256"

// secret is a 32-byte key derived from the engine's master secret. It is
// never exposed outside this package.
type secret [sha256.Size]byte

// deriveSecret computes SHA-256(purpose || 0x00 || master), namespacing a
// single master secret into independent sub-keys by purpose.
func deriveSecret(purpose string, master []byte) secret {
	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write(master)

	var s secret
	copy(s[:], h.Sum(nil))
	return s
}

const (
	purposeClientHMAC        = "client-hmac"
	purposeClientPassword    = "client-password"
	purposeAuthCode          = "auth-code"
	purposeAuthRequestHandle = "auth-request-handle"
)
