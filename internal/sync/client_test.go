// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa/internal/config"
)

func newTestSheetClient(t *testing.T) *SheetClient {
	t.Helper()
	return NewSheetClient(&config.SheetConfig{
		CacheBustParam: "t",
		Timeout:        5 * time.Second,
	})
}

func TestSheetClientFetchCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("nisn,name\n1001,Budi\n"))
	}))
	defer server.Close()

	client := newTestSheetClient(t)
	body, err := client.FetchCSV(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "nisn,name\n1001,Budi\n", body)
}

func TestSheetClientCacheBustParam(t *testing.T) {
	var gotParam string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParam = r.URL.Query().Get("t")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestSheetClient(t)
	_, err := client.FetchCSV(context.Background(), server.URL+"?existing=1")
	require.NoError(t, err)
	assert.NotEmpty(t, gotParam, "cache-bust parameter must be appended to every read request")
}

func TestSheetClientHTMLResponseIsAccessDenied(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"doctype", "<!DOCTYPE html><html><body>Sign in</body></html>"},
		{"html tag", "  <html><head><title>Authorization required</title></head></html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestSheetClient(t)
			_, err := client.FetchCSV(context.Background(), server.URL)
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestSheetClientNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestSheetClient(t)
	_, err := client.FetchCSV(context.Background(), server.URL)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccessDenied)
}

func TestSheetClientContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := newTestSheetClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchCSV(ctx, server.URL)
	assert.Error(t, err)
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"<!DOCTYPE html>", true},
		{"<html lang=\"en\">", true},
		{"  \n<HTML>", true},
		{"nisn,name\n1001,Budi", false},
		{"", false},
		{"plain text mentioning <html> later", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikeHTML(tt.body), "body %q", tt.body)
	}
}
