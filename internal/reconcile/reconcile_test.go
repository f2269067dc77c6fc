// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func remoteViolation(code string, status models.FollowUpStatus) models.Violation {
	return models.Violation{
		Code:        code,
		NISN:        "0051234567",
		StudentName: "Budi Santoso",
		TypeLabel:   "Terlambat masuk sekolah",
		Category:    models.CategoryLight,
		Points:      5,
		Description: "terlambat 15 menit",
		FollowUp:    status,
	}
}

func localWrite(v models.Violation, age time.Duration) models.LocalWrite {
	return models.LocalWrite{Violation: v, WrittenAt: now.Add(-age)}
}

func TestReconcileLocalEditOverridesFreshConflict(t *testing.T) {
	// Remote has A1 Pending; local resolved it just now. The merged view
	// must show Resolved and the edit must survive into the next buffer.
	remote := []models.Violation{remoteViolation("A1", models.FollowUpPending)}
	edited := remoteViolation("A1", models.FollowUpResolved)
	edited.FollowUpNote = "dipanggil orang tua"
	buffer := []models.LocalWrite{localWrite(edited, 0)}

	result := NewEngine(0).Reconcile(now, remote, buffer)

	require.Len(t, result.Merged, 1)
	assert.Equal(t, models.FollowUpResolved, result.Merged[0].FollowUp)
	assert.Equal(t, "dipanggil orang tua", result.Merged[0].FollowUpNote)
	require.Len(t, result.ValidLocal, 1)
	assert.Equal(t, "A1", result.ValidLocal[0].Violation.Code)
	assert.Equal(t, 1, result.States[StateRemoteConflictRecent])
}

func TestReconcileStalenessCutoff(t *testing.T) {
	remote := []models.Violation{remoteViolation("A1", models.FollowUpPending)}
	edited := remoteViolation("A1", models.FollowUpResolved)

	tests := []struct {
		name         string
		age          time.Duration
		wantOverride bool
	}{
		{"nine minutes old still overrides", 9 * time.Minute, true},
		{"just inside the window overrides", 10*time.Minute - time.Second, true},
		{"exactly at the window does not override", 10 * time.Minute, false},
		{"ten minutes one second does not override", 10*time.Minute + time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := []models.LocalWrite{localWrite(edited, tt.age)}
			result := NewEngine(0).Reconcile(now, remote, buffer)

			require.Len(t, result.Merged, 1)
			if tt.wantOverride {
				assert.Equal(t, models.FollowUpResolved, result.Merged[0].FollowUp)
				assert.Len(t, result.ValidLocal, 1)
			} else {
				assert.Equal(t, models.FollowUpPending, result.Merged[0].FollowUp)
				assert.Empty(t, result.ValidLocal)
			}
		})
	}
}

func TestReconcileMatchingStatusDropsWrite(t *testing.T) {
	remote := []models.Violation{remoteViolation("A1", models.FollowUpResolved)}
	buffer := []models.LocalWrite{localWrite(remoteViolation("A1", models.FollowUpResolved), time.Minute)}

	result := NewEngine(0).Reconcile(now, remote, buffer)

	assert.Len(t, result.Merged, 1)
	assert.Empty(t, result.ValidLocal, "remote already reflects the intent")
	assert.Equal(t, 1, result.States[StateRemoteConfirmedMatching])
}

func TestReconcileIdempotence(t *testing.T) {
	// A second cycle with an unchanged remote set and the previous cycle's
	// surviving buffer must not re-apply anything once statuses match.
	remote := []models.Violation{remoteViolation("A1", models.FollowUpPending)}
	edited := remoteViolation("A1", models.FollowUpResolved)
	buffer := []models.LocalWrite{localWrite(edited, 0)}
	engine := NewEngine(0)

	first := engine.Reconcile(now, remote, buffer)
	require.Len(t, first.ValidLocal, 1)

	// Remote catches up; replaying the surviving buffer drains it.
	caughtUp := []models.Violation{remoteViolation("A1", models.FollowUpResolved)}
	second := engine.Reconcile(now.Add(time.Minute), caughtUp, first.ValidLocal)
	assert.Empty(t, second.ValidLocal, "no infinite re-application")
	assert.Equal(t, models.FollowUpResolved, second.Merged[0].FollowUp)
}

func TestReconcileUnsyncedAppended(t *testing.T) {
	remote := []models.Violation{remoteViolation("A1", models.FollowUpPending)}
	fresh := remoteViolation("CPS-002", models.FollowUpPending)
	fresh.Description = "berbeda sama sekali"
	fresh.TypeLabel = "Membolos pelajaran"
	fresh.Points = 20
	buffer := []models.LocalWrite{localWrite(fresh, time.Minute)}

	result := NewEngine(0).Reconcile(now, remote, buffer)

	require.Len(t, result.Merged, 2)
	assert.Equal(t, "A1", result.Merged[0].Code, "remote order preserved")
	assert.Equal(t, "CPS-002", result.Merged[1].Code)
	require.Len(t, result.ValidLocal, 1)
	assert.Equal(t, 1, result.States[StateUnsynced])
}

func TestReconcileFuzzyDuplicateAbsorbed(t *testing.T) {
	// Same student, type, points and description under a different code: the
	// sheet has absorbed the submission and assigned its own code.
	remote := []models.Violation{remoteViolation("PL-017", models.FollowUpPending)}
	local := remoteViolation("CPS-001", models.FollowUpPending)
	local.Description = "  terlambat 15 menit  " // trimmed comparison
	buffer := []models.LocalWrite{localWrite(local, time.Minute)}

	result := NewEngine(0).Reconcile(now, remote, buffer)

	assert.Len(t, result.Merged, 1, "duplicate must not appear twice")
	assert.Empty(t, result.ValidLocal)
	assert.Equal(t, 1, result.States[StateRemoteConfirmedMatching])
}

func TestReconcileEmptyCodeSkipped(t *testing.T) {
	buffer := []models.LocalWrite{localWrite(models.Violation{Code: ""}, time.Minute)}
	result := NewEngine(0).Reconcile(now, nil, buffer)
	assert.Empty(t, result.Merged)
	assert.Empty(t, result.ValidLocal)
}

func TestReconcileDuplicateRemoteCodesLastWinsLookup(t *testing.T) {
	older := remoteViolation("A1", models.FollowUpPending)
	newer := remoteViolation("A1", models.FollowUpResolved)
	remote := []models.Violation{older, newer}

	// Local matches the later row: confirmed, dropped.
	buffer := []models.LocalWrite{localWrite(remoteViolation("A1", models.FollowUpResolved), time.Minute)}
	result := NewEngine(0).Reconcile(now, remote, buffer)

	assert.Len(t, result.Merged, 2, "both remote rows stay in the baseline")
	assert.Empty(t, result.ValidLocal)
}

func TestRemoteCodes(t *testing.T) {
	remote := []models.Violation{
		remoteViolation("A1", models.FollowUpPending),
		remoteViolation("A2", models.FollowUpPending),
	}
	codes := RemoteCodes(remote)
	assert.Len(t, codes, 2)
	_, ok := codes["A1"]
	assert.True(t, ok)
	_, ok = codes["CPS-003"]
	assert.False(t, ok)
}

func TestNextSequenceCode(t *testing.T) {
	assert.Equal(t, "CPS-001", NextSequenceCode(0))
	assert.Equal(t, "CPS-043", NextSequenceCode(42))
	assert.Equal(t, "CPS-1000", NextSequenceCode(999))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unsynced", StateUnsynced.String())
	assert.Equal(t, "confirmed", StateRemoteConfirmedMatching.String())
	assert.Equal(t, "conflict_recent", StateRemoteConflictRecent.String())
	assert.Equal(t, "conflict_stale", StateRemoteConflictStale.String())
	assert.Equal(t, "unknown", State(99).String())
}
