// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/logging"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(&APIResponse{Status: "ok", Data: data})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	w.Header().Set("Content-Type", "application/json")
	body, marshalErr := json.Marshal(&APIResponse{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
	})
	if marshalErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, writeErr := w.Write(body); writeErr != nil {
		logging.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
