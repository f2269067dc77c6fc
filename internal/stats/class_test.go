// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClassKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"VII A", "VIIA"},
		{"vii-a", "VIIA"},
		{"VII.A", "VIIA"},
		{" Kelas 7A ", "KELAS7A"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeClassKey(tt.input); got != tt.expected {
			t.Errorf("NormalizeClassKey(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeClassKeyGroupsEquivalentLabels(t *testing.T) {
	assert.Equal(t, NormalizeClassKey("VII A"), NormalizeClassKey("vii-a"))
	assert.Equal(t, NormalizeClassKey("Kelas 7A"), NormalizeClassKey("KELAS 7 A"))
}

func TestClassRank(t *testing.T) {
	tests := []struct {
		label      string
		wantRank   int
		wantSuffix string
	}{
		{"VII A", 7, "A"},
		{"VIII B", 8, "B"},
		{"IX C", 9, "C"},
		{"XII A", 12, "A"},
		{"Kelas 7B", 7, "B"},
		{"class 10 A", 10, "A"},
		{"7A", 7, "A"},
		{"unranked", 0, "UNRANKED"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		rank, suffix := ClassRank(tt.label)
		if rank != tt.wantRank || suffix != tt.wantSuffix {
			t.Errorf("ClassRank(%q) = (%d, %q), want (%d, %q)",
				tt.label, rank, suffix, tt.wantRank, tt.wantSuffix)
		}
	}
}

func TestSortClasses(t *testing.T) {
	labels := []string{"IX A", "VII B", "Kelas 8A", "VII A", "X A"}
	SortClasses(labels)
	assert.Equal(t, []string{"VII A", "VII B", "Kelas 8A", "IX A", "X A"}, labels)
}

func TestSortClassesMixedFormatting(t *testing.T) {
	// "class 7" before "class 8" regardless of surface formatting.
	labels := []string{"kelas 8 b", "VII A", "8A", "vii-b"}
	SortClasses(labels)
	assert.Equal(t, []string{"VII A", "vii-b", "8A", "kelas 8 b"}, labels)
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"A2", "A10", true},
		{"A10", "A2", false},
		{"A", "B", true},
		{"A1", "A1", false},
		{"", "A", true},
	}
	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.expected {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
