// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sheet

import (
	"strings"
	"testing"
	"time"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
)

const studentCSV = `NISN,Nama,JK,Kelas,Wali Kelas,Kontak Ortu
0051234567,Budi Santoso,L,VII A,Bu Rina,0812000111
0059876543,"Siti, Aminah",P,VIII B,Pak Joko,0812000222
,Missing NISN,L,VII A,Bu Rina,0812000333
0051111111,,L,VII A,Bu Rina,0812000444
0052222222,Short Row,L
`

func TestDecodeStudents(t *testing.T) {
	students := DecodeStudents(studentCSV)

	if len(students) != 2 {
		t.Fatalf("got %d students, want 2 (invalid rows dropped silently)", len(students))
	}

	first := students[0]
	if first.NISN != "0051234567" || first.FullName != "Budi Santoso" || first.ClassLabel != "VII A" {
		t.Errorf("unexpected first student: %+v", first)
	}

	// Quoted comma stays inside the name field.
	if students[1].FullName != "Siti, Aminah" {
		t.Errorf("quoted name = %q, want %q", students[1].FullName, "Siti, Aminah")
	}
}

func TestDecodeStudentsHeaderAlwaysDropped(t *testing.T) {
	// Even a header that looks like a valid data row is discarded.
	text := "0050000000,Looks Like Data,L,VII A,Bu Rina,0812\n0051234567,Real Row,L,VII A,Bu Rina,0813"
	students := DecodeStudents(text)
	if len(students) != 1 || students[0].FullName != "Real Row" {
		t.Errorf("header must be dropped unconditionally, got %+v", students)
	}
}

func violationRow(nisn, code, date, label string) string {
	return strings.Join([]string{
		nisn, "Budi Santoso", "VII A", "0812000111", code, date,
		label, "Ringan", "5", "Kelas", "desc", "Diproses", "", "Pak Guru",
	}, ",")
}

func TestDecodeViolations(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	text := "header\n" +
		violationRow("005", "PL-001", "15/03/2024", "Terlambat") + "\n" +
		violationRow("005", "", "13/13/13", "Membolos") + "\n" +
		",,,,PL-003,15/03/2024,Terlambat,Ringan,5,Kelas,desc\n" + // empty NISN: dropped
		"005,short,row\n" // under minimum: dropped

	violations := DecodeViolations(text, now)
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(violations))
	}

	v := violations[0]
	if v.Code != "PL-001" {
		t.Errorf("Code = %q, want PL-001", v.Code)
	}
	if v.RawDate != "15/03/2024" {
		t.Errorf("RawDate = %q, raw text must be retained", v.RawDate)
	}
	wantCreated := time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC)
	if !v.CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want base + 1s = %v", v.CreatedAt, wantCreated)
	}
	if v.Category != models.CategoryLight || v.FollowUp != models.FollowUpPending {
		t.Errorf("enum defaults wrong: %+v", v)
	}

	// Second row: missing code synthesized from source position, garbage date
	// falls back to the injected clock.
	v = violations[1]
	if v.Code != "SHEET-2" {
		t.Errorf("Code = %q, want SHEET-2", v.Code)
	}
	if !v.CreatedAt.Equal(now.Add(2 * time.Second)) {
		t.Errorf("CreatedAt = %v, want now + 2s", v.CreatedAt)
	}
}

func TestDecodeViolationsCreatedAtStrictlyOrdered(t *testing.T) {
	// Rows sharing one calendar date must still sort in source row order.
	now := time.Now()
	var rows []string
	for i := 0; i < 8; i++ {
		rows = append(rows, violationRow("005", "", "2024-01-01", "Terlambat"))
	}
	text := "header\n" + strings.Join(rows, "\n")

	violations := DecodeViolations(text, now)
	if len(violations) != 8 {
		t.Fatalf("got %d violations, want 8", len(violations))
	}
	for i := 1; i < len(violations); i++ {
		if !violations[i].CreatedAt.After(violations[i-1].CreatedAt) {
			t.Fatalf("CreatedAt not strictly increasing at row %d: %v <= %v",
				i, violations[i].CreatedAt, violations[i-1].CreatedAt)
		}
	}
}

func TestDecodeViolationsSourcePositionSurvivesDroppedRows(t *testing.T) {
	// A dropped row still advances the source position, so synthesized codes
	// stay aligned with sheet rows.
	now := time.Now()
	text := "header\n" +
		"short,row\n" +
		violationRow("005", "", "2024-01-01", "Terlambat")

	violations := DecodeViolations(text, now)
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	if violations[0].Code != "SHEET-2" {
		t.Errorf("Code = %q, want SHEET-2 (position counts dropped rows)", violations[0].Code)
	}
}

func TestDecodeViolationsOptionalTrailingColumns(t *testing.T) {
	// Exactly the minimum column count: description onward default to empty.
	now := time.Now()
	text := "header\n005,Budi,VII A,0812,PL-1,2024-01-01,Terlambat,Ringan,5,Kelas"

	violations := DecodeViolations(text, now)
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	v := violations[0]
	if v.Description != "" || v.FollowUpNote != "" || v.Reporter != "" {
		t.Errorf("trailing columns should default to empty: %+v", v)
	}
	if v.FollowUp != models.FollowUpPending {
		t.Errorf("missing status should default to Pending, got %q", v.FollowUp)
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"5", 5},
		{" 40 ", 40},
		{"", 0},
		{"-3", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parsePoints(tt.input); got != tt.expected {
			t.Errorf("parsePoints(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
