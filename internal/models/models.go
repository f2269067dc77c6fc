// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package models defines the core data types shared across SIMPAS: students,
// violation records, the closed category and follow-up enumerations, and the
// local write buffer entry used by reconciliation.
package models

import "time"

// Student is one row of the student roster. Records are immutable once
// fetched: every successful roster fetch recreates the full set, there is no
// partial update path.
type Student struct {
	// NISN is the national student number, the roster's natural key.
	NISN            string `json:"nisn"`
	FullName        string `json:"full_name"`
	Sex             string `json:"sex"`
	ClassLabel      string `json:"class_label"`
	HomeroomTeacher string `json:"homeroom_teacher"`
	ParentContact   string `json:"parent_contact"`
}

// Violation is one disciplinary incident entry. The student's name, class and
// contact are denormalized copies taken at recording time; NISN may dangle if
// the student has since left the roster.
type Violation struct {
	// Code is the violation's natural key. Sheet rows without a code get a
	// synthesized "SHEET-<row>" code during decoding.
	Code          string         `json:"code"`
	NISN          string         `json:"nisn"`
	StudentName   string         `json:"student_name"`
	ClassLabel    string         `json:"class_label"`
	ParentContact string         `json:"parent_contact"`
	RawDate       string         `json:"raw_date"`
	TypeLabel     string         `json:"type_label"`
	Category      Category       `json:"category"`
	Points        int            `json:"points"`
	Location      string         `json:"location"`
	Description   string         `json:"description"`
	FollowUp      FollowUpStatus `json:"follow_up_status"`
	FollowUpNote  string         `json:"follow_up_result"`
	Reporter      string         `json:"reporter,omitempty"`

	// CreatedAt is a synthetic timestamp used only for sort order. It is the
	// parsed occurrence date (or the fetch wall clock when unparseable) plus a
	// per-row offset, so later sheet rows always sort after earlier ones.
	// RawDate keeps the original text for display.
	CreatedAt time.Time `json:"created_at"`
}

// LocalWrite is a violation mutation applied locally but not yet confirmed by
// the remote sheet. WrittenAt is the client clock at mutation time and drives
// the reconciliation freshness window.
type LocalWrite struct {
	Violation Violation `json:"violation"`
	WrittenAt time.Time `json:"written_at"`
}
