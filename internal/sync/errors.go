// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sync

import "errors"

// Failure taxonomy for the fetch path. NetworkFailure and ErrAccessDenied
// recover locally by falling back to the cache; cache corruption recovers by
// substituting an empty dataset; only ErrNoData reaches the caller, and even
// that is non-fatal (the interface keeps serving whatever is in memory).
var (
	// ErrAccessDenied indicates the read endpoint returned an HTML document
	// instead of CSV, the typical symptom of a permission wall serving a
	// login page.
	ErrAccessDenied = errors.New("sheet access denied (HTML response)")

	// ErrNoData indicates a fetch failed and no cached copy exists.
	ErrNoData = errors.New("no data available (fetch failed and cache empty)")

	// ErrUnknownViolation indicates a follow-up update named a violation
	// code absent from the current snapshot.
	ErrUnknownViolation = errors.New("unknown violation code")

	// ErrAlreadyRunning indicates Start was called on a running manager.
	ErrAlreadyRunning = errors.New("sync manager is already running")

	// ErrNotRunning indicates Stop was called on a stopped manager.
	ErrNotRunning = errors.New("sync manager is not running")
)
