// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sheet

import (
	"strconv"
	"strings"
	"time"
)

// standardLayouts are tried first, before the numeric heuristics.
var standardLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// resolveBaseDate turns the free-text occurrence date of a sheet row into a
// base timestamp. Resolution order:
//
//  1. Standard date-time layouts (RFC 3339 and common variants).
//  2. Split on "/" or "-" into three numeric parts and apply two heuristics:
//     day-month-year when part1 <= 31, part2 <= 12, part3 > 1000;
//     year-month-day when part1 > 1000, part2 <= 12, part3 <= 31.
//  3. The current wall clock.
//
// The fallback is policy, not an error: rows with garbage dates still need a
// stable position in the recency ordering. Callers add a per-row offset to
// the returned base, so the raw text must be kept separately for display.
func resolveBaseDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	for _, layout := range standardLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	if t, ok := parseNumericDate(raw); ok {
		return t
	}

	return now
}

// parseNumericDate applies the day-first / year-first heuristics to a
// slash- or dash-separated date.
func parseNumericDate(raw string) (time.Time, bool) {
	sep := "/"
	if !strings.Contains(raw, sep) {
		sep = "-"
	}
	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}

	switch {
	case nums[0] >= 1 && nums[0] <= 31 && nums[1] >= 1 && nums[1] <= 12 && nums[2] > 1000:
		// day-month-year
		return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.UTC), true
	case nums[0] > 1000 && nums[1] >= 1 && nums[1] <= 12 && nums[2] >= 1 && nums[2] <= 31:
		// year-month-day
		return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}
