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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealUnseal_RoundTrip(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))
	payload := authCodeData{IDToken: "id_token"}

	envelope, err := seal(payload, key, []byte("client-a"))
	require.NoError(t, err)

	got, err := unseal[authCodeData](envelope, key, []byte("client-a"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUnseal_FailsUnderDifferentKey(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))
	other := deriveSecret("auth-code", []byte("different"))

	envelope, err := seal(authCodeData{IDToken: "x"}, key, nil)
	require.NoError(t, err)

	_, err = unseal[authCodeData](envelope, other, nil)
	assert.ErrorIs(t, err, errOpaqueEnvelope)
}

func TestUnseal_FailsUnderDifferentAAD(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))

	envelope, err := seal(authCodeData{IDToken: "x"}, key, []byte("client-a"))
	require.NoError(t, err)

	_, err = unseal[authCodeData](envelope, key, []byte("client-b"))
	assert.ErrorIs(t, err, errOpaqueEnvelope)
}

func TestUnseal_RejectsShortEnvelope(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))
	_, err := unseal[authCodeData]("dG9vc2hvcnQ=", key, nil)
	assert.ErrorIs(t, err, errOpaqueEnvelope)
}

func TestUnseal_RejectsMalformedBase64(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))
	_, err := unseal[authCodeData]("not-base64url!!", key, nil)
	assert.ErrorIs(t, err, errOpaqueEnvelope)
}

func TestSeal_ProducesFreshNonceEachTime(t *testing.T) {
	key := deriveSecret("auth-code", []byte("master"))
	a, err := seal(authCodeData{IDToken: "x"}, key, nil)
	require.NoError(t, err)
	b, err := seal(authCodeData{IDToken: "x"}, key, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
