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

// Package demoauth implements a Handler with no real user interaction: it
// treats every authorization request as already authenticated under a fixed
// subject. It mirrors a mock identity connector and stands in for the real
// authentication UX (an SSO flow, a password form, a passkey ceremony) a
// production deployment would plug into the engine instead.
package demoauth

import (
	"log/slog"

	"github.com/opentrusty/opentrusty/internal/clientpolicy"
	"github.com/opentrusty/opentrusty/internal/oidc"
)

// Subject is the fixed "sub" identity every request is granted under.
const Subject = "demo-user"

// Handler is an oidc.Handler that immediately grants every request it sees.
type Handler struct {
	engine  *oidc.Engine
	creator oidc.IDTokenCreator
	policy  *clientpolicy.Policy
}

// New builds a Handler that mints id_tokens via creator and, if policy is
// non-nil, applies it as the IsValidClient veto.
func New(creator oidc.IDTokenCreator, policy *clientpolicy.Policy) *Handler {
	return &Handler{creator: creator, policy: policy}
}

// BindEngine supplies the Engine this Handler was registered with. The
// engine and the handler need each other to construct (the engine calls
// HandleAuth, HandleAuth calls GrantCode back on the engine), so wiring is
// necessarily two-phase: oidc.New(handler, master) first, then BindEngine.
func (h *Handler) BindEngine(e *oidc.Engine) {
	h.engine = e
}

// HandleAuth implements oidc.Handler: it grants the request unconditionally,
// under Subject, and returns the form-POST bounce GrantCode produces.
func (h *Handler) HandleAuth(_ oidc.Request, authRequestHandle string) oidc.Response {
	resp, err := h.engine.GrantCode(authRequestHandle, h.creator)
	if err != nil {
		slog.Error("demoauth: grant failed", "error", err)
		return oidc.Response{
			Status:  500,
			Headers: map[string]string{"Content-Type": "text/plain;charset=UTF-8"},
			Body:    []byte("internal server error"),
		}
	}
	return resp
}

// IsValidClient implements oidc.Handler by deferring to the configured
// policy, or allowing everything when none was configured.
func (h *Handler) IsValidClient(clientID oidc.ClientId, redirectURI string) bool {
	if h.policy == nil {
		return true
	}
	return h.policy.Allow(clientID.BareID(), redirectURI)
}
