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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/opentrusty/internal/audit"
	"github.com/opentrusty/opentrusty/internal/clientpolicy"
	"github.com/opentrusty/opentrusty/internal/demoauth"
	"github.com/opentrusty/opentrusty/internal/idtoken"
	"github.com/opentrusty/opentrusty/internal/oidc"
)

func newTestHandler(t *testing.T) (*Handler, *oidc.Engine) {
	t.Helper()
	idtokenService, err := idtoken.New("https://auth.example")
	require.NoError(t, err)

	h := demoauth.New(idtokenService.Creator(demoauth.Subject), clientpolicy.New(nil, nil))
	engine := oidc.New(h, []byte("test master secret"))
	h.BindEngine(engine)

	return NewHandler(engine, idtokenService, audit.NewSlogLogger()), engine
}

func TestHandler_Discovery(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/openid-configuration", nil)
	w := httptest.NewRecorder()
	h.Discovery(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var meta idtoken.DiscoveryMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "https://auth.example", meta.Issuer)
}

func TestHandler_JWKS(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/jwks.json", nil)
	w := httptest.NewRecorder()
	h.JWKS(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var jwks idtoken.JWKS
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jwks))
	require.Len(t, jwks.Keys, 1)
}

func TestHandler_HealthCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_AuthorizeThenToken(t *testing.T) {
	h, engine := newTestHandler(t)
	creds := engine.GenerateClientCredentials("rp", "https://rp.example/callback")

	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", creds.ClientID.String())
	v.Set("redirect_uri", "https://rp.example/callback")
	v.Set("response_mode", "form_post")
	v.Set("state", "xyz")
	v.Set("nonce", "abc")
	v.Set("scope", "oidc")

	authReq := httptest.NewRequest(http.MethodGet, "/authorize?"+v.Encode(), nil)
	authW := httptest.NewRecorder()
	h.Authorize(authW, authReq)

	require.Equal(t, http.StatusOK, authW.Code)
	assert.Contains(t, authW.Body.String(), `name="code"`)

	code := extractFormValue(t, authW.Body.String(), "code")
	require.NotEmpty(t, code)

	body := url.Values{}
	body.Set("grant_type", "authorization_code")
	body.Set("code", code)
	body.Set("client_id", creds.ClientID.String())
	body.Set("redirect_uri", "https://rp.example/callback")

	tokenReq := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body.Encode()))
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tokenReq.SetBasicAuth(creds.ClientID.String(), creds.Password)
	tokenW := httptest.NewRecorder()
	h.Token(tokenW, tokenReq)

	require.Equal(t, http.StatusOK, tokenW.Code)
	assert.Contains(t, tokenW.Body.String(), `"id_token"`)
}

func TestHandler_AdminCreateClient(t *testing.T) {
	h, _ := newTestHandler(t)

	body := strings.NewReader(`{"bare_id":"rp","redirect_uri":"https://rp.example/callback"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/clients", body)
	w := httptest.NewRecorder()
	h.AdminCreateClient(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp adminCreateClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ClientID)
	assert.NotEmpty(t, resp.ClientSecret)
}

// extractFormValue pulls a hidden input's value out of the rendered
// form-POST bounce body, to avoid a full HTML parser in a test.
func extractFormValue(t *testing.T, html, name string) string {
	t.Helper()
	marker := `name="` + name + `" value="`
	i := strings.Index(html, marker)
	require.NotEqual(t, -1, i, "field %q not found in form body", name)
	rest := html[i+len(marker):]
	end := strings.Index(rest, `"`)
	require.NotEqual(t, -1, end)
	return rest[:end]
}
