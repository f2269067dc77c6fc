// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sync

import (
	"github.com/goccy/go-json"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/store"
)

// loadBuffer reads the local write buffer from the store. A missing or
// corrupt buffer yields an empty one; losing pending optimistic writes is
// recoverable (the user re-enters them), blocking the sync cycle is not.
func loadBuffer(kv store.KeyValueStore) []models.LocalWrite {
	data, ok, err := kv.Get(store.KeyWriteBuffer)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to read write buffer")
		return nil
	}
	if !ok {
		return nil
	}

	var buffer []models.LocalWrite
	if err := json.Unmarshal(data, &buffer); err != nil {
		logging.Error().Err(err).Msg("Write buffer corrupt, starting empty")
		return nil
	}
	return buffer
}

// saveBuffer persists the buffer wholesale, replacing the previous one.
// Failures are logged and swallowed: buffer persistence must never block
// the in-memory state update the user just triggered.
func saveBuffer(kv store.KeyValueStore, buffer []models.LocalWrite) {
	data, err := json.Marshal(buffer)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to serialize write buffer")
		return
	}
	if err := kv.Put(store.KeyWriteBuffer, data); err != nil {
		logging.Error().Err(err).Msg("Failed to persist write buffer")
	}
}
