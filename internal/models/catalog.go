// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package models

// ViolationType is one entry of the static violation type catalog.
type ViolationType struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Points   int      `json:"points"`
}

// ViolationTypeCatalog maps a violation type label to its category and point
// value. The catalog is authoritative for newly created records; historical
// rows decoded from the sheet keep whatever (possibly stale) point value the
// sheet carries.
type ViolationTypeCatalog struct {
	types map[string]ViolationType
	order []string
}

// DefaultCatalog returns the built-in school rulebook catalog.
func DefaultCatalog() *ViolationTypeCatalog {
	return NewCatalog([]ViolationType{
		{Label: "Terlambat masuk sekolah", Category: CategoryLight, Points: 5},
		{Label: "Tidak memakai atribut lengkap", Category: CategoryLight, Points: 5},
		{Label: "Membuang sampah sembarangan", Category: CategoryLight, Points: 5},
		{Label: "Keluar kelas tanpa izin", Category: CategoryLight, Points: 10},
		{Label: "Tidak mengerjakan tugas", Category: CategoryLight, Points: 10},
		{Label: "Membolos pelajaran", Category: CategoryModerate, Points: 20},
		{Label: "Merokok di lingkungan sekolah", Category: CategoryModerate, Points: 30},
		{Label: "Berkata kasar kepada guru", Category: CategoryModerate, Points: 30},
		{Label: "Merusak fasilitas sekolah", Category: CategoryModerate, Points: 40},
		{Label: "Berkelahi", Category: CategorySevere, Points: 75},
		{Label: "Membawa senjata tajam", Category: CategorySevere, Points: 100},
		{Label: "Membawa atau memakai narkoba", Category: CategorySevere, Points: 150},
	})
}

// NewCatalog builds a catalog from the given entries, preserving their order
// for listing.
func NewCatalog(entries []ViolationType) *ViolationTypeCatalog {
	c := &ViolationTypeCatalog{types: make(map[string]ViolationType, len(entries))}
	for _, e := range entries {
		if _, dup := c.types[e.Label]; !dup {
			c.order = append(c.order, e.Label)
		}
		c.types[e.Label] = e
	}
	return c
}

// Lookup returns the catalog entry for a type label.
func (c *ViolationTypeCatalog) Lookup(label string) (ViolationType, bool) {
	t, ok := c.types[label]
	return t, ok
}

// List returns all catalog entries in their defined order.
func (c *ViolationTypeCatalog) List() []ViolationType {
	out := make([]ViolationType, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, c.types[label])
	}
	return out
}
