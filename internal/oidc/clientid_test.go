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
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientId_MatchesKnownVector(t *testing.T) {
	s := secretFromBytes([]byte("secret"))
	c := newClientId("foo", s, "uri")
	assert.Equal(t, "foo~xMSH1zzz7OzoQbIUBkS2i-HTg__7XI4Z0t31WiIfkMU=", c.String())
}

func TestDerivePassword_MatchesKnownVector(t *testing.T) {
	s := secretFromBytes([]byte("secret"))
	got := derivePassword("foo", s)
	assert.Equal(t, "dzukRpPHVT1u4g9h6l0nV6mk9KRNKEGuTpW1LkzWLbQ=", got)
}

func TestClientCredentials_BasicAuth_MatchesKnownVector(t *testing.T) {
	c, err := ParseClientId("some-client~mac")
	require.NoError(t, err)
	creds := ClientCredentials{ClientID: c, Password: "password"}
	assert.Equal(t, "Basic c29tZS1jbGllbnR+bWFjOnBhc3N3b3Jk", creds.BasicAuth())
}

func TestClientId_RoundTrip(t *testing.T) {
	s := deriveSecretForTest("top-secret")
	c := newClientId("some-client", s, "https://example.com")
	assert.True(t, c.checkMAC(s, "https://example.com"))
	assert.False(t, c.checkMAC(deriveSecretForTest("wrong"), "https://example.com"))
	assert.False(t, c.checkMAC(s, "https://evil.example"))
}

func TestClientId_MAC_PrefixDoesNotVerify(t *testing.T) {
	s := deriveSecretForTest("top-secret")
	c := newClientId("some-client", s, "https://example.com")

	fullMAC, err := base64.URLEncoding.DecodeString(c.mac())
	require.NoError(t, err)
	truncated := base64.URLEncoding.EncodeToString(fullMAC[:len(fullMAC)-1])
	tampered := ClientId{raw: c.BareID() + "~" + truncated, tildePos: len(c.BareID())}

	assert.False(t, tampered.checkMAC(s, "https://example.com"))
}

func TestCheckPassword_RoundTrip(t *testing.T) {
	s := deriveSecretForTest("top-secret")
	pw := derivePassword("some-client~mac", s)
	assert.True(t, checkPassword("some-client~mac", s, pw))
	assert.False(t, checkPassword("some-client~mac", deriveSecretForTest("other"), pw))
}

func TestParseClientId_RequiresTilde(t *testing.T) {
	_, err := ParseClientId("foo")
	assert.ErrorIs(t, err, ErrMalformedClientId)
}

func TestParseClientId_RejectsNonPrintableASCII(t *testing.T) {
	_, err := ParseClientId("foo~ma\x01c")
	assert.ErrorIs(t, err, ErrMalformedClientId)
}

func TestParseClientId_SplitsAtLastTilde(t *testing.T) {
	c, err := ParseClientId("fo~o~mac")
	require.NoError(t, err)
	assert.Equal(t, "fo~o", c.BareID())
	assert.Equal(t, "mac", c.mac())
}

func deriveSecretForTest(master string) secret {
	return deriveSecret(purposeClientHMAC, []byte(master))
}

// secretFromBytes treats b as an already-derived sub-secret, bypassing
// deriveSecret. Used for vectors where the master string itself was the
// HMAC key, not a purpose-namespaced derivation of it.
func secretFromBytes(b []byte) secret {
	var s secret
	copy(s[:], b)
	return s
}
