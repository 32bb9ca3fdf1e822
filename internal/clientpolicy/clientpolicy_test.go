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

package clientpolicy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opentrusty/opentrusty/internal/clientpolicy"
)

func TestPolicy_BannedBareIDIsDenied(t *testing.T) {
	p := clientpolicy.New([]string{"bad-client"}, nil)
	assert.False(t, p.Allow("bad-client", "https://rp.example/callback"))
	assert.True(t, p.Allow("good-client", "https://rp.example/callback"))
}

func TestPolicy_BannedRedirectPrefixIsDenied(t *testing.T) {
	p := clientpolicy.New(nil, []string{"https://evil.example/"})
	assert.False(t, p.Allow("client", "https://evil.example/callback"))
	assert.True(t, p.Allow("client", "https://good.example/callback"))
}

func TestPolicy_EmptyListsAllowEverything(t *testing.T) {
	p := clientpolicy.New(nil, nil)
	assert.True(t, p.Allow("anyone", "https://anywhere.example/callback"))
}
