// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
class.go - Class Label Normalization and Ordering

Class labels in the sheets are free text: "VII A", "Kelas 7A", "vii-a" and
"7 A" all mean the same homeroom. Grouping uses an uppercase alphanumeric
key; ordering extracts the leading grade numeral (Roman I-XII or Arabic) so
grade 7 sorts before grade 8 regardless of surface formatting, with a
natural-order tiebreak on the remaining suffix.
*/
package stats

import (
	"sort"
	"strings"
	"unicode"
)

// romanValues maps the Roman numerals used for school grades. Longer
// numerals are matched first.
var romanValues = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6,
	"VII": 7, "VIII": 8, "IX": 9, "X": 10, "XI": 11, "XII": 12,
}

// NormalizeClassKey reduces a free-text class label to its grouping key:
// uppercase, alphanumeric only.
func NormalizeClassKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// ClassRank extracts the grade rank and suffix from a class label. Labels
// with no recognizable grade numeral rank 0 and sort before all graded
// labels.
func ClassRank(label string) (rank int, suffix string) {
	key := NormalizeClassKey(label)
	key = strings.TrimPrefix(key, "KELAS")
	key = strings.TrimPrefix(key, "CLASS")

	// Arabic numeral prefix.
	i := 0
	for i < len(key) && key[i] >= '0' && key[i] <= '9' {
		rank = rank*10 + int(key[i]-'0')
		i++
	}
	if i > 0 {
		return rank, key[i:]
	}

	// Roman numeral prefix: consume the run of Roman characters and map it.
	j := 0
	for j < len(key) && strings.ContainsRune("IVX", rune(key[j])) {
		j++
	}
	if value, ok := romanValues[key[:j]]; ok {
		return value, key[j:]
	}
	return 0, key
}

// LessClass orders two class labels by grade rank, then by natural order of
// the suffix.
func LessClass(a, b string) bool {
	rankA, suffixA := ClassRank(a)
	rankB, suffixB := ClassRank(b)
	if rankA != rankB {
		return rankA < rankB
	}
	return naturalLess(suffixA, suffixB)
}

// SortClasses sorts class labels in place by grade rank and suffix.
func SortClasses(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return LessClass(labels[i], labels[j])
	})
}

// naturalLess compares strings with embedded numbers compared numerically,
// so "A2" sorts before "A10".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, restA := leadingInt(a)
			nb, restB := leadingInt(b)
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func leadingInt(s string) (n int, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
