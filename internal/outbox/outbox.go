// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
Package outbox persists write commands destined for the sheet's script
endpoint and delivers them in the background.

Local writes must never block on the network, and a write accepted while the
endpoint is down must still arrive eventually. The outbox gives both: the
manager enqueues a durable entry and returns, and the dispatcher drains
pending entries in enqueue order with exponential-backoff retries. An entry
is deleted only after a 2xx acknowledgement, so delivery is at-least-once;
the script endpoint treats a replayed create of the same violation code as
an upsert.
*/
package outbox

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/metrics"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/store"
)

// Entry is one pending delivery.
type Entry struct {
	ID         string          `json:"id"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	Payload    json.RawMessage `json:"payload"`
}

// createPayload mirrors the script endpoint's row-append request body.
type createPayload struct {
	Action        string `json:"action"`
	ViolationCode string `json:"violation_code"`
	NISN          string `json:"nisn"`
	StudentName   string `json:"student_name"`
	ClassLabel    string `json:"class_label"`
	ParentContact string `json:"parent_contact"`
	Date          string `json:"date"`
	TypeLabel     string `json:"type_label"`
	Category      string `json:"category"`
	Points        int    `json:"points"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	FollowUp      string `json:"follow_up_status"`
	Reporter      string `json:"reporter,omitempty"`
}

// resolvePayload mirrors the script endpoint's follow-up update request
// body; field names match the sheet's Indonesian column headers.
type resolvePayload struct {
	Action       string `json:"action"`
	ID           string `json:"id"`
	TindakLanjut string `json:"tindak_lanjut"`
	Hasil        string `json:"hasil_tindak_lanjut"`
}

// Queue is the durable enqueue side of the outbox.
type Queue struct {
	kv store.KeyValueStore
}

// NewQueue creates an outbox queue backed by the given store.
func NewQueue(kv store.KeyValueStore) *Queue {
	return &Queue{kv: kv}
}

// EnqueueCreate records a row-append command for the given violation.
func (q *Queue) EnqueueCreate(v models.Violation) error {
	payload, err := json.Marshal(createPayload{
		Action:        "create_pelanggaran",
		ViolationCode: v.Code,
		NISN:          v.NISN,
		StudentName:   v.StudentName,
		ClassLabel:    v.ClassLabel,
		ParentContact: v.ParentContact,
		Date:          v.RawDate,
		TypeLabel:     v.TypeLabel,
		Category:      string(v.Category),
		Points:        v.Points,
		Location:      v.Location,
		Description:   v.Description,
		FollowUp:      string(v.FollowUp),
		Reporter:      v.Reporter,
	})
	if err != nil {
		return fmt.Errorf("marshal create payload: %w", err)
	}
	return q.enqueue(payload)
}

// EnqueueResolve records a follow-up status update command.
func (q *Queue) EnqueueResolve(code string, status models.FollowUpStatus, result string) error {
	payload, err := json.Marshal(resolvePayload{
		Action:       "update_tindak_lanjut",
		ID:           code,
		TindakLanjut: string(status),
		Hasil:        result,
	})
	if err != nil {
		return fmt.Errorf("marshal resolve payload: %w", err)
	}
	return q.enqueue(payload)
}

func (q *Queue) enqueue(payload json.RawMessage) error {
	now := time.Now()
	entry := Entry{
		// Nanosecond prefix keeps List's lexicographic order equal to
		// enqueue order; the uuid fragment breaks same-nanosecond ties.
		ID:         fmt.Sprintf("%020d-%s", now.UnixNano(), uuid.NewString()[:8]),
		EnqueuedAt: now,
		Payload:    payload,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal outbox entry: %w", err)
	}
	if err := q.kv.Put(store.OutboxPrefix+entry.ID, data); err != nil {
		return fmt.Errorf("persist outbox entry: %w", err)
	}
	metrics.OutboxEnqueued.Inc()
	q.updatePendingGauge()
	logging.Debug().Str("entry_id", entry.ID).Msg("Outbox entry enqueued")
	return nil
}

// Pending returns all queued entries in enqueue order.
func (q *Queue) Pending() ([]Entry, error) {
	pairs, err := q.kv.List(store.OutboxPrefix)
	if err != nil {
		return nil, fmt.Errorf("list outbox entries: %w", err)
	}
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	// Entry IDs are nanosecond-prefixed, so key order is enqueue order.
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		var entry Entry
		if err := json.Unmarshal(pairs[key], &entry); err != nil {
			// A corrupt entry can never be delivered; drop it rather than
			// wedging the queue head forever.
			logging.Error().Err(err).Str("key", key).Msg("Dropping corrupt outbox entry")
			_ = q.kv.Delete(key)
			continue
		}
		if entry.ID == "" {
			entry.ID = strings.TrimPrefix(key, store.OutboxPrefix)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ack deletes a delivered entry.
func (q *Queue) Ack(entry Entry) error {
	if err := q.kv.Delete(store.OutboxPrefix + entry.ID); err != nil {
		return fmt.Errorf("delete outbox entry %s: %w", entry.ID, err)
	}
	q.updatePendingGauge()
	return nil
}

func (q *Queue) updatePendingGauge() {
	if keys, err := q.kv.List(store.OutboxPrefix); err == nil {
		metrics.OutboxPending.Set(float64(len(keys)))
	}
}
