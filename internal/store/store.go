// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package store provides the keyed local persistence layer: last-good fetch
// caches, the local write buffer, and the delivery outbox all live behind
// one KeyValueStore interface. Production uses BadgerDB; tests use the
// in-memory implementation.
//
// The store gives no transactional guarantees across keys and does not need
// to: each logical value (a whole cached table, the whole buffer) is written
// as a single JSON blob under one key.
package store

// KeyValueStore is the injected persistence capability. Implementations must
// be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the value for key. The second result is false when the key
	// does not exist.
	Get(key string) ([]byte, bool, error)

	// Put stores value under key, overwriting any prior value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// List returns all key/value pairs whose key starts with prefix.
	List(prefix string) (map[string][]byte, error)

	// Close releases the underlying resources.
	Close() error
}

// Well-known keys.
const (
	KeyStudentCache   = "cache:students"
	KeyViolationCache = "cache:violations"
	KeyWriteBuffer    = "local_write_buffer"
	OutboxPrefix      = "outbox:"
)
