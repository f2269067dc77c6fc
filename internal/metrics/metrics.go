// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package metrics provides Prometheus instrumentation for the sync cycle,
// reconciliation outcomes, sheet fetches, and outbox delivery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync cycle metrics
	SyncCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpas_sync_cycles_total",
			Help: "Total sync cycles by result",
		},
		[]string{"result"}, // "success", "degraded", "failure", "skipped"
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simpas_sync_cycle_duration_seconds",
			Help:    "Duration of full fetch-reconcile cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LastSyncTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simpas_last_sync_timestamp_seconds",
			Help: "Unix timestamp of the last completed sync cycle",
		},
	)

	// Sheet fetch metrics
	SheetFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpas_sheet_fetches_total",
			Help: "Sheet fetch attempts by table and outcome",
		},
		[]string{"table", "outcome"}, // outcome: "ok", "cache_fallback", "no_data"
	)

	// Reconciliation metrics
	ReconcileStates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpas_reconcile_writes_total",
			Help: "Local writes classified per reconciliation state",
		},
		[]string{"state"},
	)

	WriteBufferSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simpas_write_buffer_size",
			Help: "Local writes surviving the last reconciliation cycle",
		},
	)

	// Outbox metrics
	OutboxEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simpas_outbox_enqueued_total",
			Help: "Write commands enqueued for delivery",
		},
	)

	OutboxDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simpas_outbox_deliveries_total",
			Help: "Outbox delivery attempts by outcome",
		},
		[]string{"outcome"}, // "delivered", "failed"
	)

	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simpas_outbox_pending",
			Help: "Commands waiting in the outbox",
		},
	)

	// Circuit breaker metrics
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simpas_sheet_breaker_state",
			Help: "Sheet client circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
