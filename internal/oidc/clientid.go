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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformedClientId is returned when a client_id string does not contain
// a '~' separator or contains a non-printable-ASCII character.
var ErrMalformedClientId = errors.New("oidc: malformed client_id")

// ClientId wraps a client identifier of the form "<bare_id>~<mac>", where
// bare_id is client-chosen and mac binds it to a redirect_uri.
type ClientId struct {
	raw      string
	tildePos int
}

// ParseClientId parses s, splitting at the last '~'. It does not verify the
// MAC; the engine does that with checkMAC.
func ParseClientId(s string) (ClientId, error) {
	pos := strings.LastIndex(s, "~")
	if pos < 0 {
		return ClientId{}, ErrMalformedClientId
	}
	if !isPrintableASCII(s) {
		return ClientId{}, ErrMalformedClientId
	}
	return ClientId{raw: s, tildePos: pos}, nil
}

// String returns the full "<bare_id>~<mac>" string.
func (c ClientId) String() string { return c.raw }

// BareID returns the portion of the client_id before the last '~'.
func (c ClientId) BareID() string { return c.raw[:c.tildePos] }

func (c ClientId) mac() string { return c.raw[c.tildePos+1:] }

func computeClientMAC(bareID string, key secret, redirectURI string) []byte {
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(bareID))
	mac.Write([]byte{0})
	mac.Write([]byte(redirectURI))
	return mac.Sum(nil)
}

// newClientId constructs a ClientId authenticating (bareID, redirectURI)
// under the given client-hmac secret.
func newClientId(bareID string, key secret, redirectURI string) ClientId {
	mac := computeClientMAC(bareID, key, redirectURI)
	raw := bareID + "~" + base64.URLEncoding.EncodeToString(mac)
	return ClientId{raw: raw, tildePos: len(bareID)}
}

// checkMAC reports whether c authenticates (bare_id, redirectURI) under key,
// in constant time.
func (c ClientId) checkMAC(key secret, redirectURI string) bool {
	decoded, err := base64.URLEncoding.DecodeString(c.mac())
	if err != nil {
		return false
	}
	expected := computeClientMAC(c.BareID(), key, redirectURI)
	return subtle.ConstantTimeCompare(decoded, expected) == 1
}

// derivePassword computes the password associated with clientID under key.
func derivePassword(clientID string, key secret) string {
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(clientID))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

// checkPassword reports whether password is the correct password for
// clientID under key, in constant time.
func checkPassword(clientID string, key secret, password string) bool {
	decoded, err := base64.URLEncoding.DecodeString(password)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(clientID))
	expected := mac.Sum(nil)
	return subtle.ConstantTimeCompare(decoded, expected) == 1
}

// ClientCredentials holds a generated client_id and its matching password.
type ClientCredentials struct {
	ClientID ClientId
	Password string
}

// BasicAuth renders the credentials as an "Authorization: Basic ..." header
// value.
func (c ClientCredentials) BasicAuth() string {
	return formatBasicAuth(c.ClientID.String(), c.Password)
}
