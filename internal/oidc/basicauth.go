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
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMalformedBasicAuth is returned when an "Authorization" header value is
// not a well-formed Basic credential.
var ErrMalformedBasicAuth = errors.New("oidc: malformed basic auth")

type basicCredentials struct {
	UserID   string
	Password string
}

const basicAuthScheme = "Basic"

// parseBasicAuth parses an "Authorization: Basic ..." header value. It
// accepts leading whitespace, requires whitespace after "Basic", and
// requires the decoded payload to be UTF-8 containing a ':' separator.
func parseBasicAuth(header string) (basicCredentials, error) {
	s := strings.TrimLeft(header, " \t\r\n")
	if !strings.HasPrefix(s, basicAuthScheme) {
		return basicCredentials{}, ErrMalformedBasicAuth
	}
	s = s[len(basicAuthScheme):]

	if s == "" {
		return basicCredentials{}, ErrMalformedBasicAuth
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !strings.ContainsRune(" \t\r\n", r) {
		return basicCredentials{}, ErrMalformedBasicAuth
	}
	s = strings.TrimSpace(s)

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return basicCredentials{}, ErrMalformedBasicAuth
	}
	if !utf8.Valid(decoded) {
		return basicCredentials{}, ErrMalformedBasicAuth
	}

	str := string(decoded)
	idx := strings.IndexByte(str, ':')
	if idx < 0 {
		return basicCredentials{}, ErrMalformedBasicAuth
	}

	return basicCredentials{UserID: str[:idx], Password: str[idx+1:]}, nil
}

// formatBasicAuth renders userID and password as an "Authorization: Basic
// ..." header value, using standard (not url-safe) base64.
func formatBasicAuth(userID, password string) string {
	raw := userID + ":" + password
	return basicAuthScheme + " " + base64.StdEncoding.EncodeToString([]byte(raw))
}
