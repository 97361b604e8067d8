// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the taskapi service configuration from an
// optional YAML file with environment variable overrides. Environment
// always wins, so container deployments can leave the file out
// entirely.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs at startup.
type Config struct {
	// Port the HTTP server listens on. Env: TASKDECK_PORT.
	Port string `yaml:"port"`

	// DataDir is the BadgerDB directory. Env: TASKDECK_DATA_DIR.
	DataDir string `yaml:"data_dir"`

	// JWTSecret signs session tokens. Env: TASKDECK_JWT_SECRET.
	// Required; the server refuses to start without it.
	JWTSecret string `yaml:"jwt_secret"`

	// AllowedOrigins lists browser origins permitted by CORS.
	// Env: TASKDECK_FRONTEND_URL (comma separated).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// LogLevel is debug, info, warn, or error. Env: TASKDECK_LOG_LEVEL.
	LogLevel string `yaml:"log_level"`

	// LogDir enables file logging when set. Env: TASKDECK_LOG_DIR.
	LogDir string `yaml:"log_dir"`

	// OTLPEndpoint enables trace export when set.
	// Env: OTEL_EXPORTER_OTLP_ENDPOINT.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

func defaults() Config {
	return Config{
		Port:           "5000",
		DataDir:        "data",
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       "info",
	}
}

// Load reads the YAML file at path (skipped when missing) and applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file is fine; env and defaults carry the day.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKDECK_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TASKDECK_FRONTEND_URL"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.AllowedOrigins = origins
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = strings.Trim(v, "\"' ")
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set TASKDECK_JWT_SECRET)")
	}
	return nil
}
