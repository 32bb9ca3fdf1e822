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
	"context"
	"time"
)

// ReplayStore is the engine's view of an external single-use enforcement
// store for auth_codes, layered on top of an otherwise stateless engine.
// replaycache.Store satisfies this interface; the engine depends only on
// this narrow shape, not on any replaycache store type, and imports the
// replaycache package only for HashCode.
type ReplayStore interface {
	Reserve(ctx context.Context, codeHash string, ttl time.Duration) (firstUse bool, err error)
}

// Engine is a stateless OAuth 2.0 / OIDC authorization and token endpoint.
// It holds no mutable state after construction and is safe for concurrent
// use by any number of goroutines, except for the optional replay cache
// wiring performed once at startup via SetReplayCache.
type Engine struct {
	handler Handler

	clientHMACSecret        secret
	clientPasswordSecret    secret
	authCodeSecret          secret
	authRequestHandleSecret secret

	replayCache ReplayStore
	replayTTL   time.Duration
}

// SetReplayCache wires an optional replay cache into the token endpoint: a
// code hash reserved in store before is rejected as InvalidAuthCode. Calling
// this is the only way the engine gains any mutable shared state; it must
// be called once, before the engine serves any request. With no store
// configured, auth_codes remain usable any number of times the envelope
// still verifies, per spec.md's open question on single-use enforcement.
func (e *Engine) SetReplayCache(store ReplayStore, ttl time.Duration) {
	e.replayCache = store
	e.replayTTL = ttl
}

// New derives the engine's four sub-secrets from master and binds handler as
// the collaborator for user authentication and client policy. Changing
// master invalidates every outstanding client_id, password, handle, and
// code issued by a previous engine instance.
func New(handler Handler, master []byte) *Engine {
	return &Engine{
		handler:                 handler,
		clientHMACSecret:        deriveSecret(purposeClientHMAC, master),
		clientPasswordSecret:    deriveSecret(purposeClientPassword, master),
		authCodeSecret:          deriveSecret(purposeAuthCode, master),
		authRequestHandleSecret: deriveSecret(purposeAuthRequestHandle, master),
	}
}

// GenerateClientCredentials mints a ClientId and password authenticating
// (bareID, redirectURI). It touches no database: the credentials are
// entirely reconstructible from the engine's master secret.
func (e *Engine) GenerateClientCredentials(bareID, redirectURI string) ClientCredentials {
	clientID := newClientId(bareID, e.clientHMACSecret, redirectURI)
	return ClientCredentials{
		ClientID: clientID,
		Password: derivePassword(clientID.String(), e.clientPasswordSecret),
	}
}

// TokenCreationData is passed to the caller-supplied id-token creator
// closure. The creator is responsible for binding Nonce and ClientID (as
// aud) into the returned id_token.
type TokenCreationData struct {
	Nonce    string
	ClientID string
	Scope    string
}

// IDTokenCreator mints an id_token for the given data, or fails.
type IDTokenCreator func(TokenCreationData) (string, error)

// authRequestData is sealed inside an auth_request_handle.
type authRequestData struct {
	State       string `json:"state"`
	Nonce       string `json:"nonce"`
	RedirectURI string `json:"redirect_uri"`
	Scope       string `json:"scope"`
	ClientID    string `json:"client_id"`
}

// authCodeData is sealed inside an auth_code.
type authCodeData struct {
	IDToken string `json:"id_token"`
}
