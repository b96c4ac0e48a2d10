package config

import (
	"time"

	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/kv"
)

// Config is the root configuration structure.
type Config struct {
	Plugins PluginsConfig `json:"plugins"`
	UI      UIConfig      `json:"ui"`
	Metrics MetricsConfig `json:"metrics"`
}

// PluginsConfig holds per-plugin configuration.
type PluginsConfig struct {
	Concat  ConcatPluginConfig  `json:"concat"`
	Scripts ScriptsPluginConfig `json:"scripts"`
}

// ConcatPluginConfig configures the file concatenator.
type ConcatPluginConfig struct {
	Enabled bool `json:"enabled"`
	Watch   bool `json:"watch"` // flag stale artifacts when sources change
}

// ScriptsPluginConfig configures the script manager.
type ScriptsPluginConfig struct {
	Enabled       bool   `json:"enabled"`
	OverlapPolicy string `json:"overlapPolicy"` // "reject", "queue" or "allow"
	StoreDriver   string `json:"storeDriver"`   // "sqlite" or "sqlite3"
	StorePath     string `json:"storePath"`     // empty = <state dir>/scripts.db
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter    bool          `json:"showFooter"`
	ShowClock     bool          `json:"showClock"`
	StartPage     string        `json:"startPage"`
	ToastDuration time.Duration `json:"-"` // "toastDuration" in JSON, e.g. "3s"
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `json:"addr"` // empty disables
}

const defaultToastDuration = 3 * time.Second

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Plugins: PluginsConfig{
			Concat: ConcatPluginConfig{
				Enabled: true,
				Watch:   true,
			},
			Scripts: ScriptsPluginConfig{
				Enabled:       true,
				OverlapPolicy: string(execution.OverlapReject),
				StoreDriver:   kv.DriverModernc,
			},
		},
		UI: UIConfig{
			ShowFooter:    true,
			ShowClock:     true,
			StartPage:     "/",
			ToastDuration: defaultToastDuration,
		},
	}
}

// Validate checks the configuration for errors, correcting recoverable
// values in place.
func (c *Config) Validate() error {
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = defaultToastDuration
	}
	c.Plugins.Scripts.OverlapPolicy = string(execution.ParseOverlapPolicy(c.Plugins.Scripts.OverlapPolicy))
	switch c.Plugins.Scripts.StoreDriver {
	case kv.DriverModernc, kv.DriverCgo:
	case "":
		c.Plugins.Scripts.StoreDriver = kv.DriverModernc
	default:
		return &ValidationError{Field: "plugins.scripts.storeDriver", Value: c.Plugins.Scripts.StoreDriver}
	}
	if c.UI.StartPage == "" {
		c.UI.StartPage = "/"
	}
	return nil
}

// ValidationError reports an unusable configuration value.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Value
}
