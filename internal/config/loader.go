package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// rawDurations carries duration fields that are strings in JSON.
type rawDurations struct {
	UI struct {
		ToastDuration string `json:"toastDuration"`
	} `json:"ui"`
}

// Load reads the config from ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, overlaying it on Default. A missing
// file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var raw rawDurations
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if s := raw.UI.ToastDuration; s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parsing ui.toastDuration: %w", err)
		}
		cfg.UI.ToastDuration = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
