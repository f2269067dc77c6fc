// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
client.go - Spreadsheet CSV Read Client

Reads the published CSV tables over HTTP. The endpoints have public-link
semantics: no authentication, but a revoked or misconfigured share silently
serves an HTML login page instead of CSV, so the client inspects the body
before handing it to a decoder.

Resilience:
  - Circuit breaker (sony/gobreaker): opens at a 60% failure rate over a
    minimum of 10 requests, half-opens after 2 minutes. A rejected request
    counts as a fetch failure and the caller falls back to its cache.
  - Cache busting: every request carries a unique query parameter so
    intermediary caches never serve stale CSV.
*/
package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/metrics"
)

// maxBodySize caps how much CSV is read from one response. The tables are a
// few hundred rows; anything near this limit is not our data.
const maxBodySize = 16 << 20 // 16MB

// Fetcher reads one CSV document. Implemented by SheetClient in production
// and by fakes in tests.
type Fetcher interface {
	FetchCSV(ctx context.Context, rawURL string) (string, error)
}

// SheetClient fetches published CSV over HTTP with circuit breaker
// protection. Safe for concurrent use.
type SheetClient struct {
	httpClient     *http.Client
	cacheBustParam string
	cb             *gobreaker.CircuitBreaker[string]
}

// NewSheetClient creates a client from the sheet configuration.
func NewSheetClient(cfg *config.SheetConfig) *SheetClient {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "sheet-read",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.BreakerState.Set(breakerStateValue(to))
		},
	})

	return &SheetClient{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		cacheBustParam: cfg.CacheBustParam,
		cb:             cb,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// FetchCSV reads one CSV document, returning its text.
func (c *SheetClient) FetchCSV(ctx context.Context, rawURL string) (string, error) {
	return c.cb.Execute(func() (string, error) {
		return c.fetch(ctx, rawURL)
	})
}

func (c *SheetClient) fetch(ctx context.Context, rawURL string) (string, error) {
	reqURL, err := c.withCacheBust(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sheet request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read sheet body: %w", err)
	}

	text := string(body)
	if looksLikeHTML(text) {
		return "", ErrAccessDenied
	}
	return text, nil
}

// withCacheBust appends the cache-busting query parameter with a unique
// value.
func (c *SheetClient) withCacheBust(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse sheet URL: %w", err)
	}
	q := u.Query()
	q.Set(c.cacheBustParam, strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// looksLikeHTML reports whether a response body is an HTML document rather
// than CSV.
func looksLikeHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}
