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

// Package idtoken implements the reference id-token creator the engine's
// closure contract requires: an RS256 JWT signer backed by a process-lifetime
// RSA key, plus the JWKS and discovery metadata a client needs to verify it.
package idtoken

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opentrusty/opentrusty/internal/oidc"
)

// Service signs id_tokens for the engine's GrantCode step and publishes the
// metadata a relying party needs to verify them. It holds a single RSA-2048
// key generated at construction, with no rotation or persistence: good enough
// for a reference implementation the engine deliberately keeps outside its
// own trust boundary.
type Service struct {
	issuer     string
	signingKey *rsa.PrivateKey
	kid        string
}

// New generates a signing key and binds it to issuer.
func New(issuer string) (*Service, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("idtoken: generate signing key: %w", err)
	}

	hash := sha256.Sum256(key.PublicKey.N.Bytes())
	kid := base64.RawURLEncoding.EncodeToString(hash[:16])

	return &Service{issuer: issuer, signingKey: key, kid: kid}, nil
}

// Creator returns the closure satisfying oidc.IDTokenCreator. subject is the
// opaque "sub" claim value a Handler supplies for whatever identity it
// authenticated (the demo Handler always passes the same fixed subject).
func (s *Service) Creator(subject string) oidc.IDTokenCreator {
	return func(data oidc.TokenCreationData) (string, error) {
		now := time.Now()

		claims := jwt.MapClaims{
			"iss": s.issuer,
			"sub": subject,
			"aud": data.ClientID,
			"exp": now.Add(5 * time.Minute).Unix(),
			"iat": now.Unix(),
		}
		if data.Nonce != "" {
			claims["nonce"] = data.Nonce
		}

		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		token.Header["kid"] = s.kid

		signed, err := token.SignedString(s.signingKey)
		if err != nil {
			return "", fmt.Errorf("idtoken: sign: %w", err)
		}
		return signed, nil
	}
}

// DiscoveryMetadata is the OIDC Discovery (§3/§4) document for this issuer.
type DiscoveryMetadata struct {
	Issuer                           string   `json:"issuer"`
	AuthorizationEndpoint            string   `json:"authorization_endpoint"`
	TokenEndpoint                    string   `json:"token_endpoint"`
	JWKSURI                          string   `json:"jwks_uri"`
	ResponseTypesSupported           []string `json:"response_types_supported"`
	ResponseModesSupported           []string `json:"response_modes_supported"`
	SubjectTypesSupported            []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
	ScopesSupported                  []string `json:"scopes_supported"`
	GrantTypesSupported              []string `json:"grant_types_supported"`
}

// Discovery builds the discovery document. Endpoint URLs are the issuer with
// a path appended, so the issuer must have no trailing slash.
func (s *Service) Discovery() DiscoveryMetadata {
	return DiscoveryMetadata{
		Issuer:                           s.issuer,
		AuthorizationEndpoint:            s.issuer + "/authorize",
		TokenEndpoint:                    s.issuer + "/token",
		JWKSURI:                          s.issuer + "/jwks.json",
		ResponseTypesSupported:           []string{"code"},
		ResponseModesSupported:           []string{"form_post"},
		SubjectTypesSupported:            []string{"public"},
		IDTokenSigningAlgValuesSupported: []string{"RS256"},
		ScopesSupported:                  []string{"oidc"},
		GrantTypesSupported:              []string{"authorization_code"},
	}
}

// JWK is a single RFC 7517 JSON Web Key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is an RFC 7517 JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS returns the public half of the signing key in JWKS form.
func (s *Service) JWKS() JWKS {
	pub := s.signingKey.PublicKey
	n := base64.RawURLEncoding.EncodeToString(pub.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes())

	return JWKS{Keys: []JWK{{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: s.kid,
		N:   n,
		E:   e,
	}}}
}
