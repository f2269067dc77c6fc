// SIMPAS - Student Violation Recording and Tracking
// Copyright 2026 SIMPAS contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muhammadmaftuh2505-cyber/Aplikasi-Pelanggaran-Siswa

// Package config defines and loads the SIMPAS service configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML file, then environment variables (highest priority).
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Sheet   SheetConfig   `koanf:"sheet"`
	Sync    SyncConfig    `koanf:"sync"`
	Store   StoreConfig   `koanf:"store"`
	Outbox  OutboxConfig  `koanf:"outbox"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SheetConfig points at the external spreadsheet service: two published CSV
// read URLs and the script endpoint accepting write commands.
type SheetConfig struct {
	StudentsURL   string        `koanf:"students_url"`
	ViolationsURL string        `koanf:"violations_url"`
	ScriptURL     string        `koanf:"script_url"`
	// CacheBustParam is the query parameter appended to every read request
	// so intermediary caches never serve stale CSV.
	CacheBustParam string        `koanf:"cache_bust_param"`
	Timeout        time.Duration `koanf:"timeout"`
}

// SyncConfig configures the periodic fetch/reconcile cycle.
type SyncConfig struct {
	Interval time.Duration `koanf:"interval"`
	// FreshnessWindow bounds how long a conflicting local edit overrides the
	// remote value during reconciliation.
	FreshnessWindow time.Duration `koanf:"freshness_window"`
	// RefreshFloor is the minimum elapsed time a manual refresh takes. It
	// exists for perceived responsiveness, not correctness.
	RefreshFloor time.Duration `koanf:"refresh_floor"`
}

// StoreConfig configures the local Badger store.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// OutboxConfig configures write delivery retries.
type OutboxConfig struct {
	DrainInterval   time.Duration `koanf:"drain_interval"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	// MaxElapsedTime bounds one delivery attempt run; an entry that still
	// fails stays queued for the next drain.
	MaxElapsedTime time.Duration `koanf:"max_elapsed_time"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for startup-blocking mistakes.
func (c *Config) Validate() error {
	if err := c.validateSheet(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateSync()
}

func (c *Config) validateSheet() error {
	for name, raw := range map[string]string{
		"sheet.students_url":   c.Sheet.StudentsURL,
		"sheet.violations_url": c.Sheet.ViolationsURL,
		"sheet.script_url":     c.Sheet.ScriptURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}
	if c.Sheet.Timeout <= 0 {
		return fmt.Errorf("sheet.timeout must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Interval < 5*time.Second {
		return fmt.Errorf("sync.interval must be at least 5s, got %s", c.Sync.Interval)
	}
	if c.Sync.FreshnessWindow <= 0 {
		return fmt.Errorf("sync.freshness_window must be positive")
	}
	return nil
}
