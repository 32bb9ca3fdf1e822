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
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires h's endpoints behind the standard middleware stack:
// request IDs, tracing, request logging, panic recovery, and a request
// timeout, with per-IP rate limiting scoped to the two endpoints that
// actually do cryptographic work on every call.
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.HealthCheck)

	// RFC OIDC Discovery Section 4 / RFC 7517
	r.Get("/.well-known/openid-configuration", h.Discovery)
	r.Get("/jwks.json", h.JWKS)

	r.Post("/admin/clients", h.AdminCreateClient)

	// RFC 6749 Section 4.1.1 / 4.1.3. The engine is stateless: neither
	// endpoint requires session or tenant middleware, but both are rate
	// limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(rateLimiter))
		r.Get("/authorize", h.Authorize)
		r.Post("/token", h.Token)
	})

	return r
}
