package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// savedUI mirrors UIConfig with the duration as a string.
type savedUI struct {
	ShowFooter    bool   `json:"showFooter"`
	ShowClock     bool   `json:"showClock"`
	StartPage     string `json:"startPage"`
	ToastDuration string `json:"toastDuration"`
}

// Save writes cfg to ConfigPath. Keys the config does not manage are kept.
func Save(cfg *Config) error {
	path := ConfigPath()

	raw := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing existing config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading existing config: %w", err)
	}

	managed := map[string]any{
		"plugins": cfg.Plugins,
		"metrics": cfg.Metrics,
		"ui": savedUI{
			ShowFooter:    cfg.UI.ShowFooter,
			ShowClock:     cfg.UI.ShowClock,
			StartPage:     cfg.UI.StartPage,
			ToastDuration: cfg.UI.ToastDuration.String(),
		},
	}
	for key, v := range managed {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		raw[key] = b
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
