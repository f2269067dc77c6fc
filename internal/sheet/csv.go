// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
csv.go - Quote-Aware CSV Line Decoding

The spreadsheet service publishes tables as loosely formatted CSV. The format
is not RFC 4180: rows may be ragged, fields carry stray whitespace, and an
unterminated quote still has to yield a usable row. encoding/csv rejects
ragged rows and cannot express the silent accept/drop policy the decoders
need, so the splitter is implemented directly:

  - A comma separates fields only outside an open double-quote span.
  - A doubled quote ("") inside a quoted field decodes to one literal quote.
  - Each field is whitespace-trimmed after unquoting.

The first line of every table is a header and is discarded without
validation. Decoding is eager: the whole text is consumed at once and the
result is a plain slice.
*/
package sheet

import "strings"

// splitLine splits one CSV line into trimmed field values using the
// quote-aware rules above.
func splitLine(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// Escaped quote inside a quoted span.
				b.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}

// dataLines returns the post-header lines of a CSV text. Line endings may be
// LF or CRLF. The header is dropped unconditionally; blank lines are kept so
// that callers can track source row positions.
func dataLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}

// at reads a positional field, returning "" when the row is too short.
// Columns beyond the validated minimum are read this way and default to
// empty when absent.
func at(fields []string, i int) string {
	if i >= 0 && i < len(fields) {
		return fields[i]
	}
	return ""
}
