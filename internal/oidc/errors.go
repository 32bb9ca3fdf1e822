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

import "errors"

// Kind enumerates the direct (non-redirect) HTTP errors of RFC 6749 §5.2,
// used whenever the redirect_uri has not yet been authenticated or the
// request is a POST to the token endpoint.
type Kind int

const (
	KindUnsupportedMethod Kind = iota
	KindMalformedQuery
	KindMalformedClientId
	KindMalformedRedirectUri
	KindInvalidClientMAC
	KindUnsupportedResponseMode
	KindMalformedRequestBody
	KindUnsupportedContentType
	KindInvalidAuthCode
	KindUnsupportedGrantType
	KindMissingClientCredentials
	KindMalformedClientCredentials
	KindInvalidClientCredentials
)

type kindMeta struct {
	code        string
	description string
}

var kindMetadata = map[Kind]kindMeta{
	KindUnsupportedMethod: {
		"invalid_request",
		"Invalid HTTP method - GET must be used for the authorization endpoint, and POST for the token endpoint",
	},
	KindMalformedQuery: {
		"invalid_request",
		"The query string could not be parsed, contained unknown fields, or lacked required fields such as client_id, response_type or redirect_uri.",
	},
	KindMalformedClientId: {
		"invalid_request",
		"The client_id contained invalid characters, or did not contain a tilde ('~').",
	},
	KindMalformedRedirectUri: {
		"invalid_request",
		"The redirect_uri could not be parsed, contained a fragment (which is prohibited) or did not use the 'https' scheme.",
	},
	KindInvalidClientMAC: {
		"invalid_request",
		"The combination of client_id and redirect_uri was not authenticated by the MAC inside the client_id.",
	},
	KindUnsupportedResponseMode: {
		"invalid_request",
		"Unsupported response_mode; only 'form_post' is supported.",
	},
	KindMalformedRequestBody: {
		"invalid_request",
		"The request body could not be parsed, contained unknown fields, or lacked required fields.",
	},
	KindUnsupportedContentType: {
		"invalid_request",
		"Unsupported Content-Type; only 'application/x-www-form-urlencoded' is supported",
	},
	KindInvalidAuthCode: {
		"invalid_grant",
		"Invalid authorization code.",
	},
	KindUnsupportedGrantType: {
		"unsupported_grant_type",
		"Unsupported grant_type; only 'authorization_code' is supported.",
	},
	KindMissingClientCredentials: {
		"invalid_client",
		"Missing 'Authorization' HTTP header.",
	},
	KindMalformedClientCredentials: {
		"invalid_client",
		"Malformed 'Authorization: Basic ...' header.",
	},
	KindInvalidClientCredentials: {
		"invalid_client",
		"Invalid client_id or password.",
	},
}

// Code returns the RFC 6749 §5.2 error code for k.
func (k Kind) Code() string { return kindMetadata[k].code }

// Description returns the fixed human-readable description for k.
func (k Kind) Description() string { return kindMetadata[k].description }

// Status returns the HTTP status code for k: 401 for unauthorized_client,
// 400 otherwise.
func (k Kind) Status() int {
	if k.Code() == "unauthorized_client" {
		return 401
	}
	return 400
}

// redirectKind enumerates the errors reported via a form-POST bounce to a
// client whose redirect_uri has already been authenticated.
type redirectKind int

const (
	redirectUnsupportedResponseType redirectKind = iota
	redirectUnsupportedParameter
	redirectInvalidState
	redirectInvalidNonce
	redirectInvalidScope
	redirectUnauthorizedClient
	redirectServerError
)

// redirectError pairs a redirectKind with the data it needs to render
// (the offending parameter name, for UnsupportedParameter).
type redirectError struct {
	kind  redirectKind
	param string
}

func newRedirectError(kind redirectKind) redirectError {
	return redirectError{kind: kind}
}

func newRedirectParamError(param string) redirectError {
	return redirectError{kind: redirectUnsupportedParameter, param: param}
}

func (e redirectError) Code() string {
	switch e.kind {
	case redirectUnsupportedResponseType:
		return "unsupported_response_type"
	case redirectUnsupportedParameter, redirectInvalidState, redirectInvalidNonce:
		return "invalid_request"
	case redirectInvalidScope:
		return "invalid_scope"
	case redirectUnauthorizedClient:
		return "unauthorized_client"
	case redirectServerError:
		return "server_error"
	default:
		return "server_error"
	}
}

func (e redirectError) Description() string {
	switch e.kind {
	case redirectUnsupportedResponseType:
		return "only 'code' response_type is supported"
	case redirectUnsupportedParameter:
		return "parameter '" + e.param + "' is not supported"
	case redirectInvalidState:
		return "'state' parameter must be set, non-empty and printable ascii"
	case redirectInvalidNonce:
		return "'nonce' parameter must be set, non-empty and printable ascii"
	case redirectInvalidScope:
		return `'scope' parameter must be set, include 'oidc', and may contain only printable ascii characters excluding '"' and '\'`
	case redirectUnauthorizedClient:
		return ""
	case redirectServerError:
		return "internal server error"
	default:
		return ""
	}
}

// ErrInvalidAuthRequestHandle is returned by (*Engine).GrantCode when the
// auth_request_handle fails to unseal. It is a caller-facing error: without
// the handle the engine cannot identify a redirect_uri to report it to.
var ErrInvalidAuthRequestHandle = errors.New("oidc: invalid auth_request_handle")

// ErrIdTokenCreation is returned by (*Engine).GrantCode when the
// caller-supplied id-token creator fails.
var ErrIdTokenCreation = errors.New("oidc: id_token creation failed")
