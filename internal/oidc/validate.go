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
	"errors"
	"sort"
	"strings"
)

// ErrInvalidScope is returned by parseScope when the scope string is empty,
// contains an empty token, or contains a disallowed character.
var ErrInvalidScope = errors.New("oidc: invalid scope")

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// isValidState implements RFC 6749 Appendix A.5's character class for
// `state` (and, by the same rule, `nonce`): present, non-empty, printable
// ASCII.
func isValidState(value string, present bool) bool {
	if !present || value == "" {
		return false
	}
	return isPrintableASCII(value)
}

// parseScope splits a scope string on single spaces, rejects empty tokens
// and characters outside printable ASCII excluding space, '"', and '\', and
// returns the tokens sorted.
func parseScope(scope string) ([]string, error) {
	tokens := strings.Split(scope, " ")
	for _, t := range tokens {
		if t == "" {
			return nil, ErrInvalidScope
		}
		for i := 0; i < len(t); i++ {
			c := t[i]
			if !(c == 0x21 || (c >= 0x23 && c <= 0x5B) || (c >= 0x5D && c <= 0x7E)) {
				return nil, ErrInvalidScope
			}
		}
	}

	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return sorted, nil
}

func scopeContains(scopes []string, token string) bool {
	for _, s := range scopes {
		if s == token {
			return true
		}
	}
	return false
}
