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

package oidc_test

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/opentrusty/internal/oidc"
	"github.com/opentrusty/opentrusty/internal/replaycache"
)

type fakeRequest struct {
	method      oidc.Method
	query       string
	body        string
	contentType oidc.ContentType
	hasCT       bool
	authz       string
	hasAuthz    bool
}

func (r fakeRequest) Method() oidc.Method { return r.method }
func (r fakeRequest) Query() string       { return r.query }
func (r fakeRequest) Body() io.Reader     { return strings.NewReader(r.body) }
func (r fakeRequest) ContentType() (oidc.ContentType, bool) {
	return r.contentType, r.hasCT
}
func (r fakeRequest) Authorization() (string, bool) { return r.authz, r.hasAuthz }

// capturingHandler records the auth_request_handle HandleAuth is given so
// the test can drive GrantCode with it directly, bypassing whatever
// user-authentication UX a real Handler would run.
type capturingHandler struct {
	handle string
	valid  bool
}

func (h *capturingHandler) HandleAuth(req oidc.Request, authRequestHandle string) oidc.Response {
	h.handle = authRequestHandle
	return oidc.Response{Status: 200}
}

func (h *capturingHandler) IsValidClient(oidc.ClientId, string) bool {
	return h.valid
}

func authQuery(clientID, redirectURI, state, nonce, scope string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", clientID)
	v.Set("redirect_uri", redirectURI)
	v.Set("response_mode", "form_post")
	v.Set("state", state)
	v.Set("nonce", nonce)
	v.Set("scope", scope)
	return v.Encode()
}

func TestEngine_HappyPath(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("a very secret master key"))

	creds := engine.GenerateClientCredentials("my-client", "https://rp.example/callback")

	resp := engine.HandleAuth(fakeRequest{
		method: oidc.MethodGet,
		query: authQuery(creds.ClientID.String(), "https://rp.example/callback",
			"xyz", "abc123", "oidc profile"),
	})
	require.Equal(t, 200, resp.Status)
	require.NotEmpty(t, handler.handle)

	var gotNonce, gotClientID, gotScope string
	codeResp, err := engine.GrantCode(handler.handle, func(d oidc.TokenCreationData) (string, error) {
		gotNonce = d.Nonce
		gotClientID = d.ClientID
		gotScope = d.Scope
		return "signed-id-token", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", gotNonce)
	assert.Equal(t, creds.ClientID.String(), gotClientID)
	assert.Equal(t, "oidc profile", gotScope)

	require.NotNil(t, codeResp.FormPost)
	assert.Equal(t, "https://rp.example/callback", codeResp.FormPost.URI)
	assert.Equal(t, "xyz", codeResp.FormPost.Fields["state"])
	code := codeResp.FormPost.Fields["code"]
	require.NotEmpty(t, code)

	body := url.Values{}
	body.Set("grant_type", "authorization_code")
	body.Set("code", code)
	body.Set("client_id", creds.ClientID.String())
	body.Set("redirect_uri", "https://rp.example/callback")

	tokenResp := engine.HandleToken(fakeRequest{
		method:      oidc.MethodPost,
		body:        body.Encode(),
		contentType: oidc.ContentTypeUrlEncoded,
		hasCT:       true,
		authz:       creds.BasicAuth(),
		hasAuthz:    true,
	})

	require.Equal(t, 200, tokenResp.Status)
	assert.Contains(t, string(tokenResp.Body), `"id_token":"signed-id-token"`)
}

func TestEngine_RejectsMalformedClientId(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))

	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", "no-tilde-here")
	v.Set("redirect_uri", "https://rp.example/callback")
	v.Set("response_mode", "form_post")

	resp := engine.HandleAuth(fakeRequest{method: oidc.MethodGet, query: v.Encode()})
	assert.Equal(t, 400, resp.Status)
	assert.Nil(t, resp.FormPost)
}

func TestEngine_RejectsRedirectURIWithReservedQueryField(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))
	creds := engine.GenerateClientCredentials("client", "https://rp.example/callback?state=x")

	resp := engine.HandleAuth(fakeRequest{
		method: oidc.MethodGet,
		query: authQuery(creds.ClientID.String(), "https://rp.example/callback?state=x",
			"s", "n", "oidc"),
	})
	assert.Equal(t, 400, resp.Status)
}

func TestEngine_RejectsUnsupportedResponseMode(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))
	creds := engine.GenerateClientCredentials("client", "https://rp.example/callback")

	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", creds.ClientID.String())
	v.Set("redirect_uri", "https://rp.example/callback")
	v.Set("response_mode", "query")
	v.Set("state", "s")
	v.Set("nonce", "n")
	v.Set("scope", "oidc")

	resp := engine.HandleAuth(fakeRequest{method: oidc.MethodGet, query: v.Encode()})
	assert.Equal(t, 400, resp.Status)
}

func TestEngine_RejectsScopeWithoutOIDCToken(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))
	creds := engine.GenerateClientCredentials("client", "https://rp.example/callback")

	resp := engine.HandleAuth(fakeRequest{
		method: oidc.MethodGet,
		query: authQuery(creds.ClientID.String(), "https://rp.example/callback",
			"s", "n", "openid profile"),
	})
	require.NotNil(t, resp.FormPost)
	assert.Equal(t, "invalid_scope", resp.FormPost.Fields["error"])
}

func TestEngine_RejectsCrossClientCodeReuse(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))

	credsA := engine.GenerateClientCredentials("client-a", "https://a.example/callback")
	credsB := engine.GenerateClientCredentials("client-b", "https://b.example/callback")

	engine.HandleAuth(fakeRequest{
		method: oidc.MethodGet,
		query: authQuery(credsA.ClientID.String(), "https://a.example/callback",
			"s", "n", "oidc"),
	})
	codeResp, err := engine.GrantCode(handler.handle, func(oidc.TokenCreationData) (string, error) {
		return "token", nil
	})
	require.NoError(t, err)
	code := codeResp.FormPost.Fields["code"]

	body := url.Values{}
	body.Set("grant_type", "authorization_code")
	body.Set("code", code)
	body.Set("client_id", credsB.ClientID.String())
	body.Set("redirect_uri", "https://b.example/callback")

	resp := engine.HandleToken(fakeRequest{
		method:      oidc.MethodPost,
		body:        body.Encode(),
		contentType: oidc.ContentTypeUrlEncoded,
		hasCT:       true,
		authz:       credsB.BasicAuth(),
		hasAuthz:    true,
	})
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, string(resp.Body), "invalid_grant")
}

func TestEngine_ReplayCacheRejectsSecondRedemption(t *testing.T) {
	handler := &capturingHandler{valid: true}
	engine := oidc.New(handler, []byte("master"))
	engine.SetReplayCache(replaycache.NewMemoryStore(context.Background(), time.Minute), time.Minute)

	creds := engine.GenerateClientCredentials("client", "https://rp.example/callback")

	engine.HandleAuth(fakeRequest{
		method: oidc.MethodGet,
		query: authQuery(creds.ClientID.String(), "https://rp.example/callback",
			"s", "n", "oidc"),
	})
	codeResp, err := engine.GrantCode(handler.handle, func(oidc.TokenCreationData) (string, error) {
		return "token", nil
	})
	require.NoError(t, err)
	code := codeResp.FormPost.Fields["code"]

	body := url.Values{}
	body.Set("grant_type", "authorization_code")
	body.Set("code", code)
	body.Set("client_id", creds.ClientID.String())
	body.Set("redirect_uri", "https://rp.example/callback")

	redeem := func() oidc.Response {
		return engine.HandleToken(fakeRequest{
			method:      oidc.MethodPost,
			body:        body.Encode(),
			contentType: oidc.ContentTypeUrlEncoded,
			hasCT:       true,
			authz:       creds.BasicAuth(),
			hasAuthz:    true,
		})
	}

	first := redeem()
	require.Equal(t, 200, first.Status)

	second := redeem()
	assert.Equal(t, 400, second.Status)
	assert.Contains(t, string(second.Body), "invalid_grant")
}
