// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package stats computes the dashboard's derived views: per-student point
// totals, category histograms, recency orderings, and class-label grouping.
// Everything here is a pure function of the reconciled dataset.
package stats

import (
	"sort"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
)

// StudentStats aggregates one student's violations.
type StudentStats struct {
	Student     models.Student     `json:"student"`
	TotalPoints int                `json:"total_points"`
	CaseCount   int                `json:"case_count"`
	Violations  []models.Violation `json:"violations"`
}

// PerStudent maps NISN to aggregated stats. Every known student is seeded
// with zeros even without violations. Violations referencing an unknown NISN
// still accumulate under that key with a stub student record; the roster and
// the log are maintained by hand and dangling references are tolerated, not
// errors.
func PerStudent(students []models.Student, merged []models.Violation) map[string]*StudentStats {
	out := make(map[string]*StudentStats, len(students))
	for _, s := range students {
		out[s.NISN] = &StudentStats{Student: s}
	}

	for _, v := range merged {
		entry, ok := out[v.NISN]
		if !ok {
			entry = &StudentStats{Student: models.Student{
				NISN:       v.NISN,
				FullName:   v.StudentName,
				ClassLabel: v.ClassLabel,
			}}
			out[v.NISN] = entry
		}
		entry.TotalPoints += v.Points
		entry.CaseCount++
		entry.Violations = append(entry.Violations, v)
	}

	return out
}

// CategoryCount is one histogram bucket.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

// CategoryHistogram counts violations per category in the fixed display
// order Light, Moderate, Severe.
func CategoryHistogram(merged []models.Violation) []CategoryCount {
	counts := make(map[models.Category]int)
	for _, v := range merged {
		counts[v.Category]++
	}

	out := make([]CategoryCount, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// SortByRecency returns a copy of the dataset ordered by CreatedAt
// descending. CreatedAt carries a per-row offset from decoding, so the order
// is deterministic even when many rows share one calendar date.
func SortByRecency(merged []models.Violation) []models.Violation {
	out := make([]models.Violation, len(merged))
	copy(out, merged)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Recent returns the n most recent violations.
func Recent(merged []models.Violation, n int) []models.Violation {
	sorted := SortByRecency(merged)
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// PendingFollowUps returns the violations still awaiting follow-up, most
// recent first.
func PendingFollowUps(merged []models.Violation) []models.Violation {
	var out []models.Violation
	for _, v := range SortByRecency(merged) {
		if v.FollowUp == models.FollowUpPending {
			out = append(out, v)
		}
	}
	return out
}
