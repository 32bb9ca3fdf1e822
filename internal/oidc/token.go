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
	"io"
	"net/url"

	"github.com/opentrusty/opentrusty/internal/replaycache"
)

var tokenQueryKnownFields = map[string]bool{
	"grant_type": true, "code": true, "client_id": true, "redirect_uri": true,
}

type tokenQuery struct {
	grantType   string
	code        string
	clientID    string
	redirectURI string
}

func parseTokenQuery(raw string) (tokenQuery, bool) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return tokenQuery{}, false
	}

	for key, vs := range values {
		if !tokenQueryKnownFields[key] || len(vs) != 1 {
			return tokenQuery{}, false
		}
	}

	for field := range tokenQueryKnownFields {
		if !values.Has(field) {
			return tokenQuery{}, false
		}
	}

	return tokenQuery{
		grantType:   values.Get("grant_type"),
		code:        values.Get("code"),
		clientID:    values.Get("client_id"),
		redirectURI: values.Get("redirect_uri"),
	}, true
}

// HandleToken implements the RFC 6749 §4.1.3 token endpoint: it
// authenticates the client, unseals the auth_code, and returns the id_token
// it carries.
func (e *Engine) HandleToken(req Request) Response {
	if req.Method() != MethodPost {
		return tokenErrorResponse(KindUnsupportedMethod)
	}

	ct, ok := req.ContentType()
	if !ok || ct != ContentTypeUrlEncoded {
		return tokenErrorResponse(KindUnsupportedContentType)
	}

	rawBody, err := io.ReadAll(req.Body())
	if err != nil {
		return tokenErrorResponse(KindMalformedRequestBody)
	}

	query, ok := parseTokenQuery(string(rawBody))
	if !ok {
		return tokenErrorResponse(KindMalformedRequestBody)
	}

	if query.grantType != "authorization_code" {
		return tokenErrorResponse(KindUnsupportedGrantType)
	}

	authHeader, ok := req.Authorization()
	if !ok {
		return tokenErrorResponse(KindMissingClientCredentials)
	}

	creds, err := parseBasicAuth(authHeader)
	if err != nil {
		return tokenErrorResponse(KindMalformedClientCredentials)
	}

	if creds.UserID != query.clientID {
		return tokenErrorResponse(KindInvalidClientCredentials)
	}

	if !checkPassword(creds.UserID, e.clientPasswordSecret, creds.Password) {
		return tokenErrorResponse(KindInvalidClientCredentials)
	}

	code, err := unseal[authCodeData](query.code, e.authCodeSecret, []byte(query.clientID))
	if err != nil {
		return tokenErrorResponse(KindInvalidAuthCode)
	}

	if e.replayCache != nil {
		// Request carries no context; this call is local (MemoryStore) or a
		// single fast round trip (postgres), so context.Background() is fine.
		firstUse, err := e.replayCache.Reserve(context.Background(), replaycache.HashCode(query.code), e.replayTTL)
		if err != nil || !firstUse {
			return tokenErrorResponse(KindInvalidAuthCode)
		}
	}

	clientID, err := ParseClientId(query.clientID)
	if err != nil {
		// Should not happen: the authorization endpoint already validated
		// this client_id before minting the code.
		return tokenErrorResponse(KindMalformedClientId)
	}

	if !clientID.checkMAC(e.clientHMACSecret, query.redirectURI) {
		return tokenErrorResponse(KindInvalidClientMAC)
	}

	return tokenSuccessResponse(code.IDToken)
}
