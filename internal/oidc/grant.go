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

// GrantCode consumes an auth_request_handle produced by HandleAuth and
// returned to the Handler, invokes creator to mint an id_token, and seals
// the result into an auth_code for delivery to the client via a form-POST
// bounce.
//
// Unlike HandleAuth's validation failures, the errors GrantCode returns are
// reported to the caller (the surrounding server), never to the user-agent:
// without a valid handle the engine has no redirect_uri to report them to.
func (e *Engine) GrantCode(authRequestHandle string, creator IDTokenCreator) (Response, error) {
	data, err := unseal[authRequestData](authRequestHandle, e.authRequestHandleSecret, nil)
	if err != nil {
		return Response{}, ErrInvalidAuthRequestHandle
	}

	idToken, err := creator(TokenCreationData{
		Nonce:    data.Nonce,
		ClientID: data.ClientID,
		Scope:    data.Scope,
	})
	if err != nil {
		return Response{}, ErrIdTokenCreation
	}

	code, err := seal(authCodeData{IDToken: idToken}, e.authCodeSecret, []byte(data.ClientID))
	if err != nil {
		return formPostErrorResponse(data.RedirectURI, newRedirectError(redirectServerError), data.State, true), nil
	}

	return formPostCodeResponse(data.RedirectURI, code, data.State), nil
}
