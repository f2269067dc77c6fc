// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package main is the entry point for the SIMPAS server.
//
// SIMPAS records and tracks student disciplinary violations for a school,
// using a published Google Sheet as the system of record. The server
// periodically pulls the student roster and violation log as CSV, reconciles
// them with violations recorded locally, and serves the merged view over a
// REST API. Local writes are delivered back to the sheet's script endpoint
// through a durable outbox, so recording keeps working while the sheet is
// unreachable.
//
// # Application Architecture
//
// Startup proceeds in order:
//
//  1. Configuration: layered load from defaults, config.yaml, and
//     environment variables (Koanf v2)
//  2. Local store: Badger key-value store for the fetch cache, the local
//     write buffer, and the delivery outbox
//  3. Sheet client: HTTP fetcher with circuit breaker and cache busting
//  4. Sync manager: periodic fetch, reconcile, and snapshot publish
//  5. Outbox dispatcher: background delivery of local writes
//  6. HTTP server: REST API plus Prometheus metrics
//
// All long-running components run under a suture supervision tree with
// three isolated layers (delivery, sync, api), so a crashing component is
// restarted without taking the API offline.
//
// # Configuration
//
// Key environment variables:
//   - SHEET_STUDENTS_URL: published CSV URL of the student roster
//   - SHEET_VIOLATIONS_URL: published CSV URL of the violation log
//   - SHEET_SCRIPT_URL: Apps Script endpoint accepting writes
//   - SYNC_INTERVAL: sync cycle period (default 1m)
//   - STORE_PATH: Badger data directory (default /data/simpas)
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the sync manager finishes its cycle, and the Badger
// store is closed last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/api"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/outbox"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/store"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/supervisor"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/supervisor/services"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("students_url", cfg.Sheet.StudentsURL).
		Str("violations_url", cfg.Sheet.ViolationsURL).
		Str("store_path", cfg.Store.Path).
		Msg("Starting SIMPAS")

	kv, err := store.OpenBadger(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing local store")
		}
	}()

	queue := outbox.NewQueue(kv)
	dispatcher := outbox.NewDispatcher(queue, cfg.Sheet.ScriptURL, cfg.Outbox)

	fetcher := sync.NewSheetClient(&cfg.Sheet)
	manager := sync.NewManager(cfg, fetcher, kv, queue)

	handler := api.NewHandler(manager)
	router := api.NewRouter(&cfg.Server, handler)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDeliveryService(dispatcher)
	tree.AddSyncService(services.NewSyncService(manager))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Supervision tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervision tree exited with error")
		if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
			for _, svc := range unstopped {
				logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
			}
		}
		os.Exit(1)
	}

	logging.Info().Msg("SIMPAS stopped")
}
