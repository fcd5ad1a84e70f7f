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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package node wires the submission registry, workflow engine, event bus
// and API server together into a running service.
package node

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/hashirwa/api"
	"github.com/blinklabs-io/hashirwa/event"
	"github.com/blinklabs-io/hashirwa/internal/config"
	"github.com/blinklabs-io/hashirwa/registry"
	"github.com/blinklabs-io/hashirwa/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	// Parse shutdown timeout
	shutdownTimeout := 30 * time.Second // Default timeout
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	promRegistry := prometheus.NewRegistry()
	eventBus := event.NewBus(promRegistry)

	store, err := registry.NewStore(registry.StoreConfig{
		Path:         cfg.DatabasePath,
		Logger:       logger,
		EventBus:     eventBus,
		PromRegistry: promRegistry,
	})
	if err != nil {
		return fmt.Errorf("opening submission store: %w", err)
	}
	engine := workflow.NewEngine(workflow.EngineConfig{
		Store:        store,
		Logger:       logger,
		EventBus:     eventBus,
		PromRegistry: promRegistry,
	})

	if cfg.SeedDemoData {
		if err := seedDemoData(store, engine, logger); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Log lifecycle events for the audit trail
	startAuditLog(signalCtx, eventBus, logger)

	// API listener
	apiServer := api.New(
		api.APIConfig{
			ListenAddress: fmt.Sprintf(
				"%s:%d",
				cfg.BindAddr,
				cfg.ApiPort,
			),
			AdminKey: cfg.AdminKey,
		},
		store,
		engine,
		logger,
	)
	//nolint:contextcheck
	if err := apiServer.Start(signalCtx); err != nil {
		return err
	}

	// Metrics listener
	metricsMux := http.NewServeMux()
	metricsMux.Handle(
		"/metrics",
		promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	)
	logger.Info(
		"serving prometheus metrics on "+fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component", "node",
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		Handler:           metricsMux,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", "node",
			)
			os.Exit(1)
		}
	}()

	<-signalCtx.Done()
	logger.Info("signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// startAuditLog subscribes to the submission lifecycle events and logs each
// one until the context is cancelled.
func startAuditLog(
	ctx context.Context,
	eventBus *event.Bus,
	logger *slog.Logger,
) {
	auditLogger := logger.With("component", "audit")
	eventTypes := []event.EventType{
		event.SubmissionCreatedEventType,
		event.SubmissionApprovedEventType,
		event.SubmissionRejectedEventType,
	}
	for _, eventType := range eventTypes {
		subID, evtCh := eventBus.Subscribe(eventType)
		go func(eventType event.EventType, subID event.SubscriberID) {
			defer eventBus.Unsubscribe(eventType, subID)
			for {
				select {
				case <-ctx.Done():
					return
				case evt, ok := <-evtCh:
					if !ok {
						return
					}
					item, ok := evt.Data.(*registry.Submission)
					if !ok {
						continue
					}
					auditLogger.Info(
						string(evt.Type),
						"id", item.ID,
						"status", item.Status,
					)
				}
			}
		}(eventType, subID)
	}
}
