// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sheet

import (
	"reflect"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "a,b,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "quoted field with embedded comma",
			line:     `"Smith, Jones",5`,
			expected: []string{"Smith, Jones", "5"},
		},
		{
			name:     "doubled quote decodes to literal quote",
			line:     `"Smith, ""Al"" Jones",5`,
			expected: []string{`Smith, "Al" Jones`, "5"},
		},
		{
			name:     "fields trimmed after unquoting",
			line:     `  a , " b " , c  `,
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty fields preserved",
			line:     "a,,c",
			expected: []string{"a", "", "c"},
		},
		{
			name:     "trailing comma yields trailing empty field",
			line:     "a,b,",
			expected: []string{"a", "b", ""},
		},
		{
			name:     "unterminated quote still yields a row",
			line:     `"open,end`,
			expected: []string{"open,end"},
		},
		{
			name:     "single field",
			line:     "only",
			expected: []string{"only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLine(tt.line)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitLine(%q) = %#v, want %#v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestDataLines(t *testing.T) {
	lines := dataLines("header\r\nrow1\r\nrow2")
	if !reflect.DeepEqual(lines, []string{"row1", "row2"}) {
		t.Errorf("dataLines = %#v, want [row1 row2]", lines)
	}

	if got := dataLines("only header"); got != nil {
		t.Errorf("header-only text should yield no data lines, got %#v", got)
	}

	// Blank lines are kept so source positions stay stable.
	lines = dataLines("h\na\n\nb")
	if !reflect.DeepEqual(lines, []string{"a", "", "b"}) {
		t.Errorf("dataLines = %#v, want blank line preserved", lines)
	}
}

func TestAt(t *testing.T) {
	fields := []string{"x", "y"}
	if got := at(fields, 1); got != "y" {
		t.Errorf("at(1) = %q, want y", got)
	}
	if got := at(fields, 5); got != "" {
		t.Errorf("at(5) = %q, want empty", got)
	}
	if got := at(fields, -1); got != "" {
		t.Errorf("at(-1) = %q, want empty", got)
	}
}
