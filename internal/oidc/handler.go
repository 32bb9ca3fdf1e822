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

// Handler is the collaborator the engine hands control to once an
// authorization request has passed validation, and consults to apply any
// client-specific policy.
type Handler interface {
	// HandleAuth is called once request validation has produced an
	// auth_request_handle. The implementation drives whatever
	// user-authentication UX it likes, and must eventually feed the handle
	// back into (*Engine).GrantCode.
	HandleAuth(req Request, authRequestHandle string) Response

	// IsValidClient is a late policy check, run after the client_id's MAC
	// has already been verified. Implementations that have no additional
	// policy should return true unconditionally.
	IsValidClient(clientID ClientId, redirectURI string) bool
}

// DefaultHandler can be embedded by a Handler implementation that has no
// client policy of its own; IsValidClient always returns true.
type DefaultHandler struct{}

// IsValidClient always returns true.
func (DefaultHandler) IsValidClient(ClientId, string) bool { return true }
