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

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// errOpaqueEnvelope is the single failure value returned by unseal for every
// possible failure mode (bad base64, short buffer, bad tag, bad JSON). It
// never reveals which step failed.
var errOpaqueEnvelope = errors.New("oidc: invalid envelope")

// seal serializes payload to JSON, encrypts it with XChaCha20-Poly1305 under
// key and aad, and returns base64url(nonce || ciphertext).
func seal[T any](payload T, key secret, aad []byte) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	buf := aead.Seal(nonce, nonce, plaintext, aad)
	return base64.URLEncoding.EncodeToString(buf), nil
}

// unseal reverses seal. Any failure - malformed base64, a short buffer, a
// failed AEAD tag check, or malformed JSON - collapses to errOpaqueEnvelope.
func unseal[T any](envelope string, key secret, aad []byte) (T, error) {
	var zero T

	buf, err := base64.URLEncoding.DecodeString(envelope)
	if err != nil {
		return zero, errOpaqueEnvelope
	}
	if len(buf) < chacha20poly1305.NonceSizeX {
		return zero, errOpaqueEnvelope
	}

	nonce, ciphertext := buf[:chacha20poly1305.NonceSizeX], buf[chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return zero, errOpaqueEnvelope
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return zero, errOpaqueEnvelope
	}

	var payload T
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return zero, errOpaqueEnvelope
	}

	return payload, nil
}
