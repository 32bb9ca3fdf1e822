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

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/opentrusty/opentrusty/internal/audit"
	"github.com/opentrusty/opentrusty/internal/idtoken"
	"github.com/opentrusty/opentrusty/internal/oidc"
)

// Handler holds the HTTP adapters for the engine and its supporting
// services.
type Handler struct {
	engine      *oidc.Engine
	idtoken     *idtoken.Service
	auditLogger audit.Logger
}

// NewHandler builds a Handler. engine and idtokenService must already be
// wired together (the engine's Handler must be bound to idtokenService's
// creator, directly or via a demoauth.Handler).
func NewHandler(engine *oidc.Engine, idtokenService *idtoken.Service, auditLogger audit.Logger) *Handler {
	return &Handler{engine: engine, idtoken: idtokenService, auditLogger: auditLogger}
}

// Authorize adapts GET /authorize to (*oidc.Engine).HandleAuth.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	resp := h.engine.HandleAuth(adapt(r, nil))
	h.auditAuthorize(r, resp)
	writeResponse(w, resp)
}

// Token adapts POST /token to (*oidc.Engine).HandleToken. The body is
// buffered once so the client_id can be recovered for the audit log without
// interfering with the engine's own parse.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	resp := h.engine.HandleToken(adapt(r, bytes.NewReader(body)))
	h.auditToken(r, body, resp)
	writeResponse(w, resp)
}

func (h *Handler) auditAuthorize(r *http.Request, resp oidc.Response) {
	if h.auditLogger == nil {
		return
	}
	clientID := r.URL.Query().Get("client_id")

	eventType := audit.TypeAuthorizeAccepted
	switch {
	case resp.FormPost != nil && resp.FormPost.Fields["error"] != "":
		eventType = audit.TypeAuthorizeRejected
	case resp.FormPost != nil && resp.FormPost.Fields["code"] != "":
		eventType = audit.TypeCodeGranted
	case resp.Status >= 400:
		eventType = audit.TypeAuthorizeRejected
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      eventType,
		ActorID:   clientID,
		Resource:  audit.ResourceAuthorization,
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	})
}

func (h *Handler) auditToken(r *http.Request, body []byte, resp oidc.Response) {
	if h.auditLogger == nil {
		return
	}
	values, _ := url.ParseQuery(string(body))

	eventType := audit.TypeTokenIssued
	if resp.Status != http.StatusOK {
		eventType = audit.TypeTokenRejected
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      eventType,
		ActorID:   values.Get("client_id"),
		Resource:  audit.ResourceToken,
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	})
}

// Discovery serves GET /.well-known/openid-configuration.
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	respondJSON(w, http.StatusOK, h.idtoken.Discovery())
}

// JWKS serves GET /jwks.json.
func (h *Handler) JWKS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	respondJSON(w, http.StatusOK, h.idtoken.JWKS())
}

// HealthCheck serves GET /healthz.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// adminCreateClientRequest is the body of POST /admin/clients.
type adminCreateClientRequest struct {
	BareID      string `json:"bare_id"`
	RedirectURI string `json:"redirect_uri"`
}

// adminCreateClientResponse is the body of a successful POST /admin/clients.
type adminCreateClientResponse struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AdminCreateClient mints a (client_id, client_secret) pair for a given
// (bare_id, redirect_uri), touching no database: the credentials are
// entirely reconstructible from the engine's master secret.
func (h *Handler) AdminCreateClient(w http.ResponseWriter, r *http.Request) {
	var req adminCreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if req.BareID == "" || req.RedirectURI == "" {
		respondError(w, http.StatusBadRequest, "bare_id and redirect_uri are required")
		return
	}

	creds := h.engine.GenerateClientCredentials(req.BareID, req.RedirectURI)

	if h.auditLogger != nil {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeClientCreated,
			ActorID:   creds.ClientID.String(),
			Resource:  audit.ResourceClient,
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
		})
	}

	respondJSON(w, http.StatusCreated, adminCreateClientResponse{
		ClientID:     creds.ClientID.String(),
		ClientSecret: creds.Password,
	})
}
