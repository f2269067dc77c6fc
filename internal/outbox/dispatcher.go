// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package outbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/metrics"
)

// Dispatcher drains the outbox queue against the sheet's script endpoint.
type Dispatcher struct {
	queue     *Queue
	scriptURL string
	cfg       config.OutboxConfig
	client    *http.Client
}

// NewDispatcher creates a dispatcher posting to scriptURL.
func NewDispatcher(queue *Queue, scriptURL string, cfg config.OutboxConfig) *Dispatcher {
	return &Dispatcher{
		queue:     queue,
		scriptURL: scriptURL,
		cfg:       cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Serve drains the queue on the configured interval until the context is
// cancelled. It satisfies suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	logging.Info().
		Str("script_url", d.scriptURL).
		Dur("drain_interval", d.cfg.DrainInterval).
		Msg("Outbox dispatcher started")

	ticker := time.NewTicker(d.cfg.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := d.Drain(ctx); err != nil {
				logging.Warn().Err(err).Msg("Outbox drain incomplete")
			}
		case <-ctx.Done():
			logging.Info().Msg("Outbox dispatcher stopped")
			return ctx.Err()
		}
	}
}

// Drain delivers pending entries in enqueue order. Each entry is retried
// with exponential backoff up to the configured elapsed bound; the first
// entry that still fails stops the run, preserving per-violation ordering
// (a resolve enqueued after a create must not overtake it).
func (d *Dispatcher) Drain(ctx context.Context) error {
	entries, err := d.queue.Pending()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := d.deliver(ctx, entry); err != nil {
			metrics.OutboxDeliveries.WithLabelValues("failed").Inc()
			return fmt.Errorf("deliver entry %s: %w", entry.ID, err)
		}
		if err := d.queue.Ack(entry); err != nil {
			// The POST succeeded but the delete did not; the entry will be
			// replayed, which the endpoint absorbs as an upsert.
			logging.Error().Err(err).Str("entry_id", entry.ID).Msg("Failed to ack delivered entry")
			return err
		}
		metrics.OutboxDeliveries.WithLabelValues("delivered").Inc()
		logging.Debug().Str("entry_id", entry.ID).Msg("Outbox entry delivered")
	}
	return nil
}

// deliver posts one entry, retrying transient failures.
func (d *Dispatcher) deliver(ctx context.Context, entry Entry) error {
	policy := backoff.NewExponentialBackOff()
	if d.cfg.InitialInterval > 0 {
		policy.InitialInterval = d.cfg.InitialInterval
	}
	if d.cfg.MaxInterval > 0 {
		policy.MaxInterval = d.cfg.MaxInterval
	}
	policy.MaxElapsedTime = d.cfg.MaxElapsedTime

	return backoff.Retry(func() error {
		return d.post(ctx, entry)
	}, backoff.WithContext(policy, ctx))
}

func (d *Dispatcher) post(ctx context.Context, entry Entry) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.scriptURL, bytes.NewReader(entry.Payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	// The script endpoint answers 2xx for accepted writes, including
	// replays. Anything else is retried; the endpoint has no meaningful
	// 4xx surface to treat as permanent.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("script endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
