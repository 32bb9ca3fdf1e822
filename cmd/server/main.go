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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opentrusty/opentrusty/internal/audit"
	"github.com/opentrusty/opentrusty/internal/clientpolicy"
	"github.com/opentrusty/opentrusty/internal/config"
	"github.com/opentrusty/opentrusty/internal/demoauth"
	"github.com/opentrusty/opentrusty/internal/idtoken"
	"github.com/opentrusty/opentrusty/internal/observability/logger"
	"github.com/opentrusty/opentrusty/internal/observability/metrics"
	"github.com/opentrusty/opentrusty/internal/observability/tracing"
	"github.com/opentrusty/opentrusty/internal/oidc"
	"github.com/opentrusty/opentrusty/internal/replaycache"
	"github.com/opentrusty/opentrusty/internal/replaycache/postgres"
	transportHTTP "github.com/opentrusty/opentrusty/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting opentrusty authorization server")

	ctx := context.Background()

	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	if _, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName); err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	auditLogger := audit.NewSlogLogger()

	idtokenService, err := idtoken.New(cfg.OIDC.Issuer)
	if err != nil {
		slog.Error("failed to initialize id-token service", logger.Error(err))
		os.Exit(1)
	}

	var policy *clientpolicy.Policy
	if len(cfg.ClientPolicy.BannedBareIDs) > 0 || len(cfg.ClientPolicy.BannedRedirectURIs) > 0 {
		policy = clientpolicy.New(cfg.ClientPolicy.BannedBareIDs, cfg.ClientPolicy.BannedRedirectURIs)
	}

	// The engine and its Handler need each other to construct: the engine
	// calls HandleAuth, HandleAuth calls GrantCode back on the engine.
	// Wiring is necessarily two-phase.
	handler := demoauth.New(idtokenService.Creator(demoauth.Subject), policy)
	engine := oidc.New(handler, []byte(cfg.OIDC.MasterSecret))
	handler.BindEngine(engine)

	if cfg.ReplayCache.DSN != "" {
		store, err := postgres.Open(ctx, cfg.ReplayCache.DSN)
		if err != nil {
			slog.Error("failed to connect replay cache", logger.Error(err))
			os.Exit(1)
		}
		defer store.Close()
		engine.SetReplayCache(store, 5*time.Minute)
		slog.Info("replay cache: postgres")
	} else {
		engine.SetReplayCache(replaycache.NewMemoryStore(ctx, cfg.ReplayCache.SweepInterval), 5*time.Minute)
		slog.Info("replay cache: in-memory (not shared across replicas)")
	}

	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	httpHandler := transportHTTP.NewHandler(engine, idtokenService, auditLogger)
	router := transportHTTP.NewRouter(httpHandler, rateLimiter)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}
