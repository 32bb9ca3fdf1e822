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

// Package oidc implements a stateless OAuth 2.0 / OpenID Connect
// authorization and token endpoint. No server-side session state is kept:
// everything the engine needs to carry across the user-authentication step
// is sealed into an auth_request_handle, and everything needed to redeem a
// code is sealed into the auth_code itself.
package oidc

import "io"

// Method is the HTTP method of a request, as seen by the engine.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodOther
)

// ContentType is the parsed Content-Type of a request, as seen by the
// engine.
type ContentType int

const (
	ContentTypeUrlEncoded ContentType = iota
	ContentTypeJSON
	ContentTypeOther
)

// Request is the minimal read-only view of an HTTP request the engine
// needs. Any HTTP framework can satisfy it with a thin adapter.
type Request interface {
	Method() Method
	Query() string
	Body() io.Reader
	ContentType() (ct ContentType, ok bool)
	Authorization() (header string, ok bool)
}
