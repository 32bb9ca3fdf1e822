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
	"io"
	"mime"
	"net/http"

	"github.com/opentrusty/opentrusty/internal/oidc"
)

// adaptedRequest adapts an *http.Request to the engine's oidc.Request view.
// body is supplied separately (rather than reading r.Body directly) so a
// handler can buffer the body once, inspect it for audit logging, and still
// hand the engine a fresh reader over the same bytes.
type adaptedRequest struct {
	r    *http.Request
	body io.Reader
}

func adapt(r *http.Request, body io.Reader) adaptedRequest {
	return adaptedRequest{r: r, body: body}
}

func (a adaptedRequest) Method() oidc.Method {
	switch a.r.Method {
	case http.MethodGet:
		return oidc.MethodGet
	case http.MethodPost:
		return oidc.MethodPost
	default:
		return oidc.MethodOther
	}
}

func (a adaptedRequest) Query() string { return a.r.URL.RawQuery }

func (a adaptedRequest) Body() io.Reader { return a.body }

func (a adaptedRequest) ContentType() (oidc.ContentType, bool) {
	header := a.r.Header.Get("Content-Type")
	if header == "" {
		return oidc.ContentTypeOther, false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return oidc.ContentTypeOther, false
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		return oidc.ContentTypeUrlEncoded, true
	case "application/json":
		return oidc.ContentTypeJSON, true
	default:
		return oidc.ContentTypeOther, true
	}
}

func (a adaptedRequest) Authorization() (string, bool) {
	header := a.r.Header.Get("Authorization")
	return header, header != ""
}

// writeResponse renders an oidc.Response onto an http.ResponseWriter.
func writeResponse(w http.ResponseWriter, resp oidc.Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
