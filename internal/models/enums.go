// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package models

import "strings"

// Category is the closed violation severity enumeration.
type Category string

// Category values, in display order.
const (
	CategoryLight    Category = "Light"
	CategoryModerate Category = "Moderate"
	CategorySevere   Category = "Severe"
)

// Categories lists all category values in their fixed display order.
// Histograms and dashboards iterate this slice, never a map.
var Categories = []Category{CategoryLight, CategoryModerate, CategorySevere}

// ParseCategory maps free-text sheet values onto the closed enumeration.
// Unrecognized or empty input defaults to Light; the source sheets are messy
// and a missing severity is policy-defaulted, not rejected. The Indonesian
// sheet labels (Ringan/Sedang/Berat) are accepted as synonyms.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "ringan":
		return CategoryLight
	case "moderate", "medium", "sedang":
		return CategoryModerate
	case "severe", "heavy", "berat":
		return CategorySevere
	default:
		return CategoryLight
	}
}

// FollowUpStatus is the closed follow-up state enumeration.
type FollowUpStatus string

// FollowUpStatus values.
const (
	FollowUpPending  FollowUpStatus = "Pending"
	FollowUpResolved FollowUpStatus = "Resolved"
)

// ParseFollowUpStatus maps free-text sheet values onto the closed
// enumeration, defaulting to Pending. Indonesian labels (Diproses/Selesai)
// are accepted as synonyms.
func ParseFollowUpStatus(s string) FollowUpStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resolved", "done", "selesai":
		return FollowUpResolved
	case "pending", "open", "diproses", "belum":
		return FollowUpPending
	default:
		return FollowUpPending
	}
}
