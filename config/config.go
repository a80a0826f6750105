// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON settings store for koboldterm.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const configName = "koboldterm.json"

// Settings holds everything the binaries need to build a session.
type Settings struct {
	Shell           string `json:"shell,omitempty"`
	Rows            int    `json:"rows,omitempty"`
	Cols            int    `json:"cols,omitempty"`
	ScrollbackLines int    `json:"scrollbackLines,omitempty"`
	LogFile         string `json:"logFile,omitempty"`
	HistoryFile     string `json:"historyFile,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Rows:            24,
		Cols:            80,
		ScrollbackLines: 10000,
	}
}

// DefaultPath returns ~/.config/koboldterm/koboldterm.json.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "koboldterm", configName), nil
}

// Load reads settings from path, falling back to defaults when the file is
// missing. A malformed file is logged and replaced by defaults rather than
// failing the caller.
func Load(path string) Settings {
	settings := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Config: Failed to read %s: %v", path, err)
		}
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Config: Failed to parse %s: %v", path, err)
		return Default()
	}
	if settings.Rows <= 0 {
		settings.Rows = 24
	}
	if settings.Cols <= 0 {
		settings.Cols = 80
	}
	if settings.ScrollbackLines <= 0 {
		settings.ScrollbackLines = 10000
	}
	return settings
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
