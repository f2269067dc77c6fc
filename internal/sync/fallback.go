// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sync

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/metrics"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/store"
)

// fetchWithFallback wraps a network read with cache-backed degradation.
//
// On success the decoded records overwrite the cache unconditionally
// (last-fetch-wins for the cache layer; merging with local edits happens one
// level up). On any failure path the last good cached value is served
// instead. A corrupt cache entry counts as "no usable cache" and yields an
// empty dataset, not an error; only a fetch failure with zero cache
// propagates as a hard ErrNoData.
func fetchWithFallback[T any](
	ctx context.Context,
	fetcher Fetcher,
	kv store.KeyValueStore,
	rawURL, table, cacheKey string,
	decode func(text string) []T,
) (records []T, fromCache bool, err error) {
	text, fetchErr := fetcher.FetchCSV(ctx, rawURL)
	if fetchErr == nil {
		records = decode(text)
		if data, marshalErr := json.Marshal(records); marshalErr != nil {
			logging.Error().Err(marshalErr).Str("table", table).Msg("Failed to serialize cache entry")
		} else if putErr := kv.Put(cacheKey, data); putErr != nil {
			// Cache write failure degrades future fallbacks, never this fetch.
			logging.Warn().Err(putErr).Str("table", table).Msg("Failed to write fetch cache")
		}
		metrics.SheetFetches.WithLabelValues(table, "ok").Inc()
		return records, false, nil
	}

	logging.Warn().Err(fetchErr).Str("table", table).Msg("Sheet fetch failed, trying cache")

	data, ok, getErr := kv.Get(cacheKey)
	if getErr != nil {
		logging.Error().Err(getErr).Str("table", table).Msg("Cache read failed")
		ok = false
	}
	if !ok {
		metrics.SheetFetches.WithLabelValues(table, "no_data").Inc()
		return nil, false, fmt.Errorf("%w: %s: %v", ErrNoData, table, fetchErr)
	}

	if unmarshalErr := json.Unmarshal(data, &records); unmarshalErr != nil {
		// Corrupt cache: serve an empty dataset rather than surfacing an
		// error the caller cannot act on.
		logging.Error().Err(unmarshalErr).Str("table", table).Msg("Cache entry corrupt, serving empty dataset")
		metrics.SheetFetches.WithLabelValues(table, "cache_fallback").Inc()
		return []T{}, true, nil
	}

	metrics.SheetFetches.WithLabelValues(table, "cache_fallback").Inc()
	return records, true, nil
}
