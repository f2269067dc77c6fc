// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
decode.go - Typed Schema Decoders

Two fixed table schemas are decoded, both positional:

Students (6 columns):

	0 nisn | 1 full_name | 2 sex | 3 class | 4 homeroom_teacher | 5 parent_contact

Violations (>= 10 columns, trailing columns optional):

	0 nisn | 1 student_name | 2 class | 3 parent_contact | 4 code | 5 date
	6 type_label | 7 category | 8 points | 9 location | 10 description
	11 follow_up_status | 12 follow_up_result | 13 reporter

A row is accepted only when it meets the schema's minimum column count and
its first field (and, for students, second field) is non-empty. Rejected rows
are dropped silently; the sheets are edited by hand and partial rows are
routine, not reportable errors.
*/
package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
)

// Minimum column counts per schema.
const (
	studentMinFields   = 6
	violationMinFields = 10
)

// SyntheticCodePrefix prefixes violation codes synthesized for sheet rows
// that omit one. The suffix is the row's 1-based post-header source
// position, which keeps the synthesized key stable across fetches as long as
// the sheet rows do not move.
const SyntheticCodePrefix = "SHEET-"

// DecodeStudents decodes the student roster table.
func DecodeStudents(text string) []models.Student {
	var students []models.Student
	for _, line := range dataLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if len(fields) < studentMinFields || fields[0] == "" || fields[1] == "" {
			continue
		}
		students = append(students, models.Student{
			NISN:            fields[0],
			FullName:        fields[1],
			Sex:             fields[2],
			ClassLabel:      fields[3],
			HomeroomTeacher: fields[4],
			ParentContact:   fields[5],
		})
	}
	return students
}

// DecodeViolations decodes the violation log table.
//
// now is the wall clock used as the base timestamp for rows whose date text
// cannot be resolved. Every accepted row gets CreatedAt = base + position
// seconds, where position is the row's 1-based post-header source position.
// The offset imposes a strict total order consistent with sheet row order
// even when many rows share one calendar date.
func DecodeViolations(text string, now time.Time) []models.Violation {
	var violations []models.Violation
	for idx, line := range dataLines(text) {
		position := idx + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if len(fields) < violationMinFields || fields[0] == "" {
			continue
		}

		code := at(fields, 4)
		if code == "" {
			code = fmt.Sprintf("%s%d", SyntheticCodePrefix, position)
		}

		rawDate := at(fields, 5)
		base := resolveBaseDate(rawDate, now)

		violations = append(violations, models.Violation{
			Code:          code,
			NISN:          fields[0],
			StudentName:   at(fields, 1),
			ClassLabel:    at(fields, 2),
			ParentContact: at(fields, 3),
			RawDate:       rawDate,
			TypeLabel:     at(fields, 6),
			Category:      models.ParseCategory(at(fields, 7)),
			Points:        parsePoints(at(fields, 8)),
			Location:      at(fields, 9),
			Description:   at(fields, 10),
			FollowUp:      models.ParseFollowUpStatus(at(fields, 11)),
			FollowUpNote:  at(fields, 12),
			Reporter:      at(fields, 13),
			CreatedAt:     base.Add(time.Duration(position) * time.Second),
		})
	}
	return violations
}

// parsePoints parses a point value, defaulting to zero on garbage or
// negative input.
func parsePoints(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
