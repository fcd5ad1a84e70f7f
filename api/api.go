// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package api exposes the submission registry over a REST API: producer
// onboarding, admin review, marketplace and metadata-document endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// AdminKeyHeader is the request header carrying the admin key for review
// endpoints.
const AdminKeyHeader = "X-Admin-Key"

// APIConfig provides the configuration for the API server.
type APIConfig struct {
	ListenAddress string
	AdminKey      string
}

// API is the HTTP API server for the submission registry.
type API struct {
	config     APIConfig
	logger     *slog.Logger
	store      SubmissionStore
	engine     ReviewEngine
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(
	cfg APIConfig,
	store SubmissionStore,
	engine ReviewEngine,
	logger *slog.Logger,
) *API {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	return &API{
		config: cfg,
		logger: logger,
		store:  store,
		engine: engine,
	}
}

// routes builds the request mux.
func (a *API) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc(
		"POST /api/v1/submissions",
		a.handleCreateSubmission,
	)
	mux.HandleFunc(
		"GET /api/v1/submissions",
		a.handleListSubmissions,
	)
	mux.HandleFunc(
		"GET /api/v1/submissions/{id}",
		a.handleGetSubmission,
	)
	mux.HandleFunc(
		"GET /api/v1/market",
		a.handleMarket,
	)
	mux.HandleFunc(
		"GET /api/v1/metadata/{doc}",
		a.handleMetadata,
	)
	mux.HandleFunc(
		"POST /api/v1/admin/submissions/{id}/approve",
		a.requireAdminKey(a.handleApprove),
	)
	mux.HandleFunc(
		"POST /api/v1/admin/submissions/{id}/reject",
		a.requireAdminKey(a.handleReject),
	)
	return mux
}

// Start starts the HTTP server in a background goroutine.
func (a *API) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.routes(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *API) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error detection. It
// binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (a *API) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
