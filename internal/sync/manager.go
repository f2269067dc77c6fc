// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
manager.go - Sync Manager Lifecycle and Orchestration

The manager owns the fetch → reconcile → publish cycle:

 1. Fetch the student roster and violation log (each with cache fallback).
 2. Load the local write buffer and reconcile it against the remote
    violation snapshot.
 3. Publish the merged snapshot to the in-memory view handlers read from,
    and rewrite the surviving buffer.

Cycles are serialized: the periodic ticker skips a trigger while a cycle is
in flight, and a manual refresh waits its turn behind the same mutex. A slow
cycle can therefore never clobber the result of a faster, more recent one.

Local writes (new violations, follow-up resolutions) apply to the snapshot
and the buffer immediately and enqueue a delivery command; they never wait
on the network.
*/
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/metrics"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/reconcile"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/sheet"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/store"
)

// ErrUnknownViolationType indicates a new violation named a type label not
// present in the catalog.
var ErrUnknownViolationType = errors.New("unknown violation type")

// Enqueuer records write commands for background delivery to the sheet's
// script endpoint. Implemented by the outbox.
type Enqueuer interface {
	EnqueueCreate(v models.Violation) error
	EnqueueResolve(code string, status models.FollowUpStatus, result string) error
}

// Snapshot is the reconciled view of both tables at one instant. Handlers
// receive it by value; slices are shared but never mutated after publish.
type Snapshot struct {
	Students    []models.Student
	Merged      []models.Violation
	RemoteCodes map[string]struct{}

	// Provenance: whether each table was served from the fallback cache.
	StudentsFromCache   bool
	ViolationsFromCache bool

	SyncedAt time.Time
}

// Manager orchestrates periodic synchronization and owns the published
// snapshot.
type Manager struct {
	cfg     *config.Config
	fetcher Fetcher
	kv      store.KeyValueStore
	outbox  Enqueuer
	engine  *reconcile.Engine
	catalog *models.ViolationTypeCatalog
	clock   func() time.Time

	mu       sync.RWMutex // protects snapshot, lastSync, running
	snapshot Snapshot
	lastSync time.Time
	running  bool

	bufMu    sync.Mutex // serializes read-modify-write of the persisted buffer
	cycleMu  sync.Mutex // serializes fetch-reconcile cycles
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a sync manager. The outbox may be nil, in which case
// local writes are applied but never delivered (useful in tests).
func NewManager(cfg *config.Config, fetcher Fetcher, kv store.KeyValueStore, outbox Enqueuer) *Manager {
	logging.Info().
		Dur("interval", cfg.Sync.Interval).
		Dur("freshness_window", cfg.Sync.FreshnessWindow).
		Msg("Sync manager config loaded")

	return &Manager{
		cfg:      cfg,
		fetcher:  fetcher,
		kv:       kv,
		outbox:   outbox,
		engine:   reconcile.NewEngine(cfg.Sync.FreshnessWindow),
		catalog:  models.DefaultCatalog(),
		clock:    time.Now,
		stopChan: make(chan struct{}),
	}
}

// SetClock replaces the manager's clock, for tests.
func (m *Manager) SetClock(clock func() time.Time) {
	m.clock = clock
}

// Catalog returns the violation type catalog used for new records.
func (m *Manager) Catalog() *models.ViolationTypeCatalog {
	return m.catalog
}

// Start begins the periodic synchronization process.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.mu.Unlock()

	logging.Info().Msg("Starting sync manager...")

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		// Initial sync in the background so startup is not blocked on the
		// network.
		if err := m.syncOnce(ctx); err != nil {
			logging.Warn().Err(err).Msg("Initial sync failed (will retry on interval)")
		}
	}()
	go m.syncLoop(ctx)

	return nil
}

// Stop gracefully stops the synchronization process.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.running = false
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	close(m.stopChan)
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

// syncLoop runs the periodic cycle until Stop or context cancellation.
func (m *Manager) syncLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !m.cycleMu.TryLock() {
				// A cycle is still in flight; skipping keeps cycles
				// serialized instead of racing their state publishes.
				metrics.SyncCycles.WithLabelValues("skipped").Inc()
				logging.Debug().Msg("Sync trigger skipped, previous cycle still running")
				continue
			}
			err := m.runCycle(ctx)
			m.cycleMu.Unlock()
			if err != nil {
				logging.Warn().Err(err).Msg("Sync cycle failed")
			}
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// syncOnce runs one serialized cycle, waiting for any cycle in flight.
func (m *Manager) syncOnce(ctx context.Context) error {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()
	return m.runCycle(ctx)
}

// TriggerSync runs a manual refresh. It serializes behind any running cycle
// and enforces the configured minimum elapsed floor before returning; the
// floor exists for perceived responsiveness, not correctness.
func (m *Manager) TriggerSync(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	err := m.syncOnce(ctx)

	if remaining := m.cfg.Sync.RefreshFloor - time.Since(start); remaining > 0 {
		select {
		case <-time.After(remaining):
		case <-ctx.Done():
		}
	}

	return m.Snapshot(), err
}

// runCycle executes one fetch-reconcile-publish cycle. Callers must hold
// cycleMu.
func (m *Manager) runCycle(ctx context.Context) error {
	start := time.Now()

	students, studentsFromCache, studentErr := fetchWithFallback(
		ctx, m.fetcher, m.kv,
		m.cfg.Sheet.StudentsURL, "students", store.KeyStudentCache,
		sheet.DecodeStudents,
	)
	violations, violationsFromCache, violationErr := fetchWithFallback(
		ctx, m.fetcher, m.kv,
		m.cfg.Sheet.ViolationsURL, "violations", store.KeyViolationCache,
		func(text string) []models.Violation { return sheet.DecodeViolations(text, m.clock()) },
	)

	// Build the next snapshot from the previous one: a table whose fetch
	// hard-failed keeps its last in-memory value, so the interface stays
	// usable with partial data.
	next := m.Snapshot()

	if studentErr == nil {
		next.Students = students
		next.StudentsFromCache = studentsFromCache
	}

	if violationErr == nil {
		// A local write landing between the buffer load and rewrite must
		// not be dropped, so the whole read-reconcile-rewrite is atomic
		// with respect to upsertBufferEntry.
		m.bufMu.Lock()
		buffer := loadBuffer(m.kv)
		result := m.engine.Reconcile(m.clock(), violations, buffer)
		saveBuffer(m.kv, result.ValidLocal)
		m.bufMu.Unlock()

		for state, count := range result.States {
			metrics.ReconcileStates.WithLabelValues(state.String()).Add(float64(count))
		}
		metrics.WriteBufferSize.Set(float64(len(result.ValidLocal)))

		next.Merged = result.Merged
		next.RemoteCodes = reconcile.RemoteCodes(violations)
		next.ViolationsFromCache = violationsFromCache
	}

	next.SyncedAt = m.clock()
	m.publish(next)

	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	metrics.LastSyncTimestamp.SetToCurrentTime()

	switch {
	case studentErr != nil && violationErr != nil:
		metrics.SyncCycles.WithLabelValues("failure").Inc()
		return fmt.Errorf("sync cycle: %w", errors.Join(studentErr, violationErr))
	case studentErr != nil || violationErr != nil || studentsFromCache || violationsFromCache:
		metrics.SyncCycles.WithLabelValues("degraded").Inc()
		return errors.Join(studentErr, violationErr)
	default:
		metrics.SyncCycles.WithLabelValues("success").Inc()
		logging.Debug().
			Int("students", len(next.Students)).
			Int("violations", len(next.Merged)).
			Msg("Sync cycle completed")
		return nil
	}
}

// publish installs the new snapshot.
func (m *Manager) publish(next Snapshot) {
	m.mu.Lock()
	m.snapshot = next
	m.lastSync = next.SyncedAt
	m.mu.Unlock()
}

// Snapshot returns the current reconciled view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// LastSyncTime returns the timestamp of the last completed cycle.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// NextSequenceCode returns the advisory code for the next violation entry.
// It counts the full merged dataset, including not-yet-synced local records.
func (m *Manager) NextSequenceCode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return reconcile.NextSequenceCode(len(m.snapshot.Merged))
}

// AddViolationInput carries the fields of a new violation entry.
type AddViolationInput struct {
	NISN        string
	TypeLabel   string
	Date        string
	Location    string
	Description string
	Reporter    string
}

// AddViolation records a new violation locally and enqueues its delivery.
//
// The type catalog is authoritative for category and point value; the
// student's name, class and contact are denormalized from the current roster
// snapshot when the NISN is known. The record appears in the merged view
// immediately and is replayed by reconciliation until the remote absorbs it.
func (m *Manager) AddViolation(input AddViolationInput) (models.Violation, error) {
	vt, ok := m.catalog.Lookup(input.TypeLabel)
	if !ok {
		return models.Violation{}, fmt.Errorf("%w: %q", ErrUnknownViolationType, input.TypeLabel)
	}

	now := m.clock()

	m.mu.Lock()
	v := models.Violation{
		Code:        reconcile.NextSequenceCode(len(m.snapshot.Merged)),
		NISN:        input.NISN,
		RawDate:     input.Date,
		TypeLabel:   vt.Label,
		Category:    vt.Category,
		Points:      vt.Points,
		Location:    input.Location,
		Description: input.Description,
		FollowUp:    models.FollowUpPending,
		Reporter:    input.Reporter,
		CreatedAt:   now,
	}
	for _, s := range m.snapshot.Students {
		if s.NISN == input.NISN {
			v.StudentName = s.FullName
			v.ClassLabel = s.ClassLabel
			v.ParentContact = s.ParentContact
			break
		}
	}
	merged := make([]models.Violation, len(m.snapshot.Merged), len(m.snapshot.Merged)+1)
	copy(merged, m.snapshot.Merged)
	m.snapshot.Merged = append(merged, v)
	m.mu.Unlock()

	m.upsertBufferEntry(models.LocalWrite{Violation: v, WrittenAt: now})

	if m.outbox != nil {
		if err := m.outbox.EnqueueCreate(v); err != nil {
			// Delivery is best-effort from the caller's perspective: the
			// local state update already happened.
			logging.Error().Err(err).Str("code", v.Code).Msg("Failed to enqueue violation delivery")
		}
	}

	logging.Info().Str("code", v.Code).Str("nisn", v.NISN).Str("type", v.TypeLabel).Msg("Violation recorded")
	return v, nil
}

// ResolveFollowUp marks a violation's follow-up as resolved with the given
// result text and enqueues the status update for delivery.
func (m *Manager) ResolveFollowUp(code, result string) (models.Violation, error) {
	now := m.clock()

	m.mu.Lock()
	idx := -1
	for i, v := range m.snapshot.Merged {
		if v.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return models.Violation{}, fmt.Errorf("%w: %q", ErrUnknownViolation, code)
	}

	merged := make([]models.Violation, len(m.snapshot.Merged))
	copy(merged, m.snapshot.Merged)
	merged[idx].FollowUp = models.FollowUpResolved
	merged[idx].FollowUpNote = result
	m.snapshot.Merged = merged
	updated := merged[idx]
	m.mu.Unlock()

	m.upsertBufferEntry(models.LocalWrite{Violation: updated, WrittenAt: now})

	if m.outbox != nil {
		if err := m.outbox.EnqueueResolve(code, models.FollowUpResolved, result); err != nil {
			logging.Error().Err(err).Str("code", code).Msg("Failed to enqueue follow-up delivery")
		}
	}

	logging.Info().Str("code", code).Msg("Follow-up resolved")
	return updated, nil
}

// upsertBufferEntry replaces the buffered write with the same code, or
// appends, and persists the buffer.
func (m *Manager) upsertBufferEntry(entry models.LocalWrite) {
	m.bufMu.Lock()
	defer m.bufMu.Unlock()

	buffer := loadBuffer(m.kv)
	replaced := false
	for i, existing := range buffer {
		if existing.Violation.Code == entry.Violation.Code {
			buffer[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		buffer = append(buffer, entry)
	}
	saveBuffer(m.kv, buffer)
	metrics.WriteBufferSize.Set(float64(len(buffer)))
}
