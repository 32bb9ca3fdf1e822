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

// Package clientpolicy implements a concrete, env-configured
// Handler.IsValidClient veto: deny-lists checked after the engine has
// already verified the client_id's MAC. It never needs a client database.
package clientpolicy

import "strings"

// Policy holds the two deny-lists.
type Policy struct {
	bannedBareIDs    map[string]bool
	bannedRedirectPs []string
}

// New builds a Policy from a list of banned bare client ids and a list of
// banned redirect_uri prefixes.
func New(bannedBareIDs, bannedRedirectPrefixes []string) *Policy {
	banned := make(map[string]bool, len(bannedBareIDs))
	for _, id := range bannedBareIDs {
		banned[id] = true
	}
	return &Policy{
		bannedBareIDs:    banned,
		bannedRedirectPs: append([]string(nil), bannedRedirectPrefixes...),
	}
}

// Allow reports whether bareID and redirectURI pass the policy: false if
// bareID is on the banned list, or redirectURI starts with a banned prefix.
func (p *Policy) Allow(bareID, redirectURI string) bool {
	if p.bannedBareIDs[bareID] {
		return false
	}
	for _, prefix := range p.bannedRedirectPs {
		if prefix != "" && strings.HasPrefix(redirectURI, prefix) {
			return false
		}
	}
	return true
}
