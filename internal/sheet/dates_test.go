// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sheet

import (
	"testing"
	"time"
)

func TestResolveBaseDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	march15 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{"day-first slash format", "15/03/2024", march15},
		{"year-first dash format", "2024-03-15", march15},
		{"year-first slash format", "2024/03/15", march15},
		{"day-first dash format", "15-03-2024", march15},
		{"rfc3339", "2024-03-15T00:00:00Z", march15},
		{"no valid interpretation falls back to now", "13/13/13", now},
		{"empty falls back to now", "", now},
		{"whitespace only falls back to now", "   ", now},
		{"non-numeric falls back to now", "next tuesday", now},
		{"two parts fall back to now", "15/03", now},
		{"zero day falls back to now", "0/03/2024", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveBaseDate(tt.raw, now)
			if !got.Equal(tt.expected) {
				t.Errorf("resolveBaseDate(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestResolveBaseDateAmbiguousPrefersDayFirst(t *testing.T) {
	// Both readings are plausible for small day values: the day-first rule
	// is checked first.
	now := time.Now()
	got := resolveBaseDate("05/03/2024", now)
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("resolveBaseDate(05/03/2024) = %v, want %v (day-first)", got, want)
	}
}
