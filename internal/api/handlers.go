// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

/*
handlers.go - HTTP Handlers

Read endpoints serve the manager's in-memory snapshot and never touch the
network, so they stay fast and available while the sheet is unreachable.
Write endpoints apply locally and enqueue background delivery, returning as
soon as the local state is updated.
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/models"
	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/stats"
	syncpkg "github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/sync"
)

const defaultRecentLimit = 10

// SyncService is the surface of the sync manager the handlers depend on.
type SyncService interface {
	Snapshot() syncpkg.Snapshot
	LastSyncTime() time.Time
	TriggerSync(ctx context.Context) (syncpkg.Snapshot, error)
	AddViolation(input syncpkg.AddViolationInput) (models.Violation, error)
	ResolveFollowUp(code, result string) (models.Violation, error)
	NextSequenceCode() string
	Catalog() *models.ViolationTypeCatalog
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	svc      SyncService
	validate *validator.Validate
}

// NewHandler creates a handler backed by the given sync service.
func NewHandler(svc SyncService) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Health reports service liveness and the state of the last sync cycle.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":                "ok",
		"last_sync":             h.svc.LastSyncTime(),
		"students":              len(snap.Students),
		"violations":            len(snap.Merged),
		"students_from_cache":   snap.StudentsFromCache,
		"violations_from_cache": snap.ViolationsFromCache,
	})
}

// Students returns the roster ordered by class, then by name.
func (h *Handler) Students(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	roster := make([]models.Student, len(snap.Students))
	copy(roster, snap.Students)
	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].ClassLabel != roster[j].ClassLabel {
			return stats.LessClass(roster[i].ClassLabel, roster[j].ClassLabel)
		}
		return roster[i].FullName < roster[j].FullName
	})
	respondJSON(w, http.StatusOK, roster)
}

// ViolationTypes returns the catalog of recordable violation types.
func (h *Handler) ViolationTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Catalog().List())
}

// Violations returns the merged dataset, newest first. The confirmed query
// parameter filters on whether the remote sheet has absorbed the record;
// limit caps the result.
func (h *Handler) Violations(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	sorted := stats.SortByRecency(snap.Merged)

	out := make([]models.Violation, 0, len(sorted))
	confirmedParam := r.URL.Query().Get("confirmed")
	for _, v := range sorted {
		if confirmedParam != "" {
			want, err := strconv.ParseBool(confirmedParam)
			if err != nil {
				respondError(w, http.StatusBadRequest, "INVALID_PARAMETER",
					"confirmed must be a boolean", nil)
				return
			}
			_, confirmed := snap.RemoteCodes[v.Code]
			if confirmed != want {
				continue
			}
		}
		out = append(out, v)
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_PARAMETER",
				"limit must be a non-negative integer", nil)
			return
		}
		if limit < len(out) {
			out = out[:limit]
		}
	}

	respondJSON(w, http.StatusOK, out)
}

// ViolationsRecent returns the newest entries first.
func (h *Handler) ViolationsRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_PARAMETER",
				"limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}
	respondJSON(w, http.StatusOK, stats.Recent(h.svc.Snapshot().Merged, limit))
}

// StatsStudents returns per-student aggregates ordered by class, then name,
// the way a homeroom teacher scans a roster.
func (h *Handler) StatsStudents(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	perStudent := stats.PerStudent(snap.Students, snap.Merged)

	out := make([]*stats.StudentStats, 0, len(perStudent))
	for _, s := range perStudent {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Student.ClassLabel != out[j].Student.ClassLabel {
			return stats.LessClass(out[i].Student.ClassLabel, out[j].Student.ClassLabel)
		}
		return out[i].Student.FullName < out[j].Student.FullName
	})
	respondJSON(w, http.StatusOK, out)
}

// StatsCategories returns the per-category histogram, including empty
// buckets, in fixed severity order.
func (h *Handler) StatsCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, stats.CategoryHistogram(h.svc.Snapshot().Merged))
}

// StatsSummary returns dashboard headline numbers.
func (h *Handler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()

	totalPoints := 0
	for _, v := range snap.Merged {
		totalPoints += v.Points
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"students":          len(snap.Students),
		"violations":        len(snap.Merged),
		"total_points":      totalPoints,
		"pending_follow_up": len(stats.PendingFollowUps(snap.Merged)),
		"categories":        stats.CategoryHistogram(snap.Merged),
		"next_code":         h.svc.NextSequenceCode(),
		"last_sync":         h.svc.LastSyncTime(),
	})
}

type createViolationRequest struct {
	NISN        string `json:"nisn" validate:"required"`
	TypeLabel   string `json:"type_label" validate:"required"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Reporter    string `json:"reporter"`
}

// CreateViolation records a new violation entry.
func (h *Handler) CreateViolation(w http.ResponseWriter, r *http.Request) {
	var req createViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}

	v, err := h.svc.AddViolation(syncpkg.AddViolationInput{
		NISN:        req.NISN,
		TypeLabel:   req.TypeLabel,
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		Reporter:    req.Reporter,
	})
	if err != nil {
		if errors.Is(err, syncpkg.ErrUnknownViolationType) {
			respondError(w, http.StatusUnprocessableEntity, "UNKNOWN_VIOLATION_TYPE", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "CREATE_FAILED", "failed to record violation", err)
		return
	}

	// 202: the record is applied locally; delivery to the sheet happens in
	// the background.
	respondJSON(w, http.StatusAccepted, v)
}

type resolveFollowUpRequest struct {
	Result string `json:"follow_up_result" validate:"required"`
}

// ResolveFollowUp marks a violation's follow-up as resolved.
func (h *Handler) ResolveFollowUp(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req resolveFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}

	v, err := h.svc.ResolveFollowUp(code, req.Result)
	if err != nil {
		if errors.Is(err, syncpkg.ErrUnknownViolation) {
			respondError(w, http.StatusNotFound, "UNKNOWN_VIOLATION", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "RESOLVE_FAILED", "failed to resolve follow-up", err)
		return
	}

	respondJSON(w, http.StatusAccepted, v)
}

// TriggerSync runs a manual refresh cycle and returns the resulting view.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.TriggerSync(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "SYNC_FAILED", err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"students":              len(snap.Students),
		"violations":            len(snap.Merged),
		"students_from_cache":   snap.StudentsFromCache,
		"violations_from_cache": snap.ViolationsFromCache,
		"synced_at":             snap.SyncedAt,
	})
}
