// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
)

// NewRouter configures all HTTP routes.
func NewRouter(cfg *config.ServerConfig, handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORSOrigins)) // global so OPTIONS preflight is handled

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimitReqs, cfg.RateLimitWindow))

		r.Get("/health", handler.Health)
		r.Get("/students", handler.Students)
		r.Get("/violation-types", handler.ViolationTypes)

		r.Route("/violations", func(r chi.Router) {
			r.Get("/", handler.Violations)
			r.Get("/recent", handler.ViolationsRecent)
			r.Post("/", handler.CreateViolation)
			r.Post("/{code}/resolve", handler.ResolveFollowUp)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/students", handler.StatsStudents)
			r.Get("/categories", handler.StatsCategories)
			r.Get("/summary", handler.StatsSummary)
		})

		r.Post("/sync", handler.TriggerSync)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
