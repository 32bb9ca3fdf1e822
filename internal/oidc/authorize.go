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
	"net/url"
)

var authQueryKnownFields = map[string]bool{
	"response_type": true, "client_id": true, "redirect_uri": true,
	"response_mode": true, "scope": true, "state": true, "nonce": true,
	"display": true, "prompt": true, "max_age": true, "ui_locales": true,
	"id_token_hint": true, "login_hint": true, "acr_values": true,
}

// unsupportedOIDCParams are accepted (to give a precise error) but never
// honored, per OIDC Core 3.1.2.1.
var unsupportedOIDCParams = []string{
	"display", "prompt", "max_age", "ui_locales",
	"id_token_hint", "login_hint", "acr_values",
}

type authQuery struct {
	responseType string
	clientID     string
	redirectURI  string
	responseMode string

	scope    string
	hasScope bool

	state    string
	hasState bool

	nonce    string
	hasNonce bool

	present map[string]bool
}

func parseAuthQuery(raw string) (authQuery, bool) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return authQuery{}, false
	}

	for key, vs := range values {
		if !authQueryKnownFields[key] || len(vs) != 1 {
			return authQuery{}, false
		}
	}

	if !values.Has("response_type") || !values.Has("client_id") || !values.Has("redirect_uri") {
		return authQuery{}, false
	}

	present := make(map[string]bool, len(unsupportedOIDCParams))
	for _, p := range unsupportedOIDCParams {
		present[p] = values.Has(p)
	}

	return authQuery{
		responseType: values.Get("response_type"),
		clientID:     values.Get("client_id"),
		redirectURI:  values.Get("redirect_uri"),
		responseMode: values.Get("response_mode"),
		scope:        values.Get("scope"),
		hasScope:     values.Has("scope"),
		state:        values.Get("state"),
		hasState:     values.Has("state"),
		nonce:        values.Get("nonce"),
		hasNonce:     values.Has("nonce"),
		present:      present,
	}, true
}

var reservedRedirectFields = []string{
	"code", "state", "nonce", "error", "error_description", "error_uri",
}

// HandleAuth implements the RFC 6749 §4.1.1 authorization endpoint. It
// validates req in order, short-circuiting on the first failure, and on
// success seals the vetted parameters into an auth_request_handle before
// handing control to the Handler.
func (e *Engine) HandleAuth(req Request) Response {
	if req.Method() != MethodGet {
		return authErrorResponse(KindUnsupportedMethod)
	}

	query, ok := parseAuthQuery(req.Query())
	if !ok {
		return authErrorResponse(KindMalformedQuery)
	}

	clientID, err := ParseClientId(query.clientID)
	if err != nil {
		return authErrorResponse(KindMalformedClientId)
	}

	if !clientID.checkMAC(e.clientHMACSecret, query.redirectURI) {
		return authErrorResponse(KindInvalidClientMAC)
	}

	parsedURI, err := url.Parse(query.redirectURI)
	if err != nil || parsedURI.Scheme != "https" || parsedURI.Fragment != "" {
		return authErrorResponse(KindMalformedRedirectUri)
	}

	if parsedURI.RawQuery != "" {
		ruq, err := url.ParseQuery(parsedURI.RawQuery)
		if err != nil {
			return authErrorResponse(KindMalformedRedirectUri)
		}
		for _, reserved := range reservedRedirectFields {
			if ruq.Has(reserved) {
				return authErrorResponse(KindMalformedRedirectUri)
			}
		}
	}

	if query.responseMode != "form_post" {
		return authErrorResponse(KindUnsupportedResponseMode)
	}

	// From here on the redirect_uri has been authenticated by the client_id's
	// MAC, so failures are reported to the user-agent via a form-POST bounce
	// rather than as a direct HTTP error.
	errResp := func(re redirectError) Response {
		return formPostErrorResponse(query.redirectURI, re, query.state, query.hasState)
	}

	if query.responseType != "code" {
		return errResp(newRedirectError(redirectUnsupportedResponseType))
	}

	if !isValidState(query.state, query.hasState) {
		return errResp(newRedirectError(redirectInvalidState))
	}

	for _, p := range unsupportedOIDCParams {
		if query.present[p] {
			return errResp(newRedirectParamError(p))
		}
	}

	if !isValidState(query.nonce, query.hasNonce) {
		return errResp(newRedirectError(redirectInvalidNonce))
	}

	if !query.hasScope {
		return errResp(newRedirectError(redirectInvalidScope))
	}
	scopes, err := parseScope(query.scope)
	if err != nil || !scopeContains(scopes, "oidc") {
		return errResp(newRedirectError(redirectInvalidScope))
	}

	if !e.handler.IsValidClient(clientID, query.redirectURI) {
		return errResp(newRedirectError(redirectUnauthorizedClient))
	}

	handle, err := seal(authRequestData{
		State:       query.state,
		Nonce:       query.nonce,
		RedirectURI: query.redirectURI,
		Scope:       query.scope,
		ClientID:    query.clientID,
	}, e.authRequestHandleSecret, nil)
	if err != nil {
		return errResp(newRedirectError(redirectServerError))
	}

	return e.handler.HandleAuth(req, handle)
}
