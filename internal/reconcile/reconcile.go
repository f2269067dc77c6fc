// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
Package reconcile merges the authoritative remote violation snapshot with the
locally buffered optimistic writes.

The remote sheet has no transactional write acknowledgement, so a local write
is replayed against every fresh snapshot until the remote reflects it or the
write goes stale. The merge policy is deliberately small:

  - A local record the remote does not know (by code or by fuzzy field match)
    is appended to the merged view and kept in the buffer.
  - A local record whose remote counterpart already matches is dropped from
    the buffer; the remote has caught up.
  - A conflicting local record overrides the remote slot only while it is
    fresh (inside the freshness window); once stale, the remote wins and the
    local edit is abandoned.

The engine is pure: the clock is a parameter and no I/O happens here. The
caller persists the returned buffer wholesale, replacing the previous one.
*/
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
)

// DefaultFreshnessWindow bounds how long a conflicting local edit keeps
// overriding the remote value. It tolerates the sheet's read-after-write lag
// while capping how long a stale local override can mask a remote
// correction.
const DefaultFreshnessWindow = 10 * time.Minute

// State classifies one local write against the remote snapshot.
type State int

// Local write states.
const (
	// StateUnsynced: no remote counterpart exists; the write is genuinely
	// new and stays in the buffer.
	StateUnsynced State = iota

	// StateRemoteConfirmedMatching: the remote reflects the local intent,
	// either under the same code with the same status or as a fuzzy
	// duplicate under a different code. The write leaves the buffer.
	StateRemoteConfirmedMatching

	// StateRemoteConflictRecent: the remote counterpart disagrees and the
	// local write is still inside the freshness window. Local overrides and
	// stays buffered for the next cycle.
	StateRemoteConflictRecent

	// StateRemoteConflictStale: the remote counterpart disagrees and the
	// local write has expired. Remote wins; the write is abandoned.
	StateRemoteConflictStale
)

// String implements fmt.Stringer, used as a metrics label.
func (s State) String() string {
	switch s {
	case StateUnsynced:
		return "unsynced"
	case StateRemoteConfirmedMatching:
		return "confirmed"
	case StateRemoteConflictRecent:
		return "conflict_recent"
	case StateRemoteConflictStale:
		return "conflict_stale"
	default:
		return "unknown"
	}
}

// Result is the outcome of one reconciliation cycle.
type Result struct {
	// Merged is the reconciled dataset: the remote snapshot in its original
	// order, with fresh conflicting slots overridden and unsynced local
	// records appended.
	Merged []models.Violation

	// ValidLocal is the surviving write buffer, to be persisted wholesale as
	// the next cycle's input.
	ValidLocal []models.LocalWrite

	// States counts classified writes per state, for logging and metrics.
	States map[State]int
}

// Engine applies the merge policy with a configurable freshness window.
type Engine struct {
	window time.Duration
}

// NewEngine creates an engine. A non-positive window falls back to
// DefaultFreshnessWindow.
func NewEngine(window time.Duration) *Engine {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &Engine{window: window}
}

// Reconcile merges remote and the local write buffer at the given instant.
func (e *Engine) Reconcile(now time.Time, remote []models.Violation, buffer []models.LocalWrite) Result {
	byCode := make(map[string]int, len(remote))
	for i, r := range remote {
		// Later rows win the lookup when the sheet carries duplicate codes;
		// both rows stay in the merged baseline.
		byCode[r.Code] = i
	}

	result := Result{
		Merged: make([]models.Violation, len(remote)),
		States: make(map[State]int),
	}
	copy(result.Merged, remote)

	for _, local := range buffer {
		if local.Violation.Code == "" {
			continue
		}

		state := e.classify(now, local, byCode, remote)
		result.States[state]++

		switch state {
		case StateUnsynced:
			result.Merged = append(result.Merged, local.Violation)
			result.ValidLocal = append(result.ValidLocal, local)
		case StateRemoteConflictRecent:
			result.Merged[byCode[local.Violation.Code]] = local.Violation
			result.ValidLocal = append(result.ValidLocal, local)
		case StateRemoteConfirmedMatching, StateRemoteConflictStale:
			// Dropped: the remote either already reflects the intent or has
			// outlived the local override.
		}
	}

	return result
}

// classify runs the per-record state machine.
func (e *Engine) classify(now time.Time, local models.LocalWrite, byCode map[string]int, remote []models.Violation) State {
	idx, known := byCode[local.Violation.Code]
	if !known {
		if hasFuzzyDuplicate(local.Violation, remote) {
			return StateRemoteConfirmedMatching
		}
		return StateUnsynced
	}

	if remote[idx].FollowUp == local.Violation.FollowUp {
		return StateRemoteConfirmedMatching
	}
	if now.Sub(local.WrittenAt) < e.window {
		return StateRemoteConflictRecent
	}
	return StateRemoteConflictStale
}

// hasFuzzyDuplicate reports whether the remote set contains a record that is
// the same real-world event as v despite carrying a different code. This
// catches the sheet assigning its own code to a submission the client
// created under an advisory code.
func hasFuzzyDuplicate(v models.Violation, remote []models.Violation) bool {
	for _, r := range remote {
		if r.NISN == v.NISN &&
			r.TypeLabel == v.TypeLabel &&
			r.Points == v.Points &&
			strings.TrimSpace(r.Description) == strings.TrimSpace(v.Description) {
			return true
		}
	}
	return false
}

// RemoteCodes returns the membership set of codes known to the remote
// snapshot. Confirmed-only views (follow-up queues, official dashboards)
// filter the merged dataset by this set so not-yet-synced local records do
// not appear; the sequence code generator deliberately uses the full merged
// count instead.
func RemoteCodes(remote []models.Violation) map[string]struct{} {
	codes := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		codes[r.Code] = struct{}{}
	}
	return codes
}

// NextSequenceCode derives the advisory human-readable code for the next
// violation entry from the merged dataset size. The sheet may later assign
// its own code; reconciliation's fuzzy matching absorbs that case.
func NextSequenceCode(mergedCount int) string {
	return fmt.Sprintf("CPS-%03d", mergedCount+1)
}
