package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Plugins.Concat.Enabled)
	assert.True(t, cfg.Plugins.Concat.Watch)
	assert.True(t, cfg.Plugins.Scripts.Enabled)
	assert.Equal(t, "reject", cfg.Plugins.Scripts.OverlapPolicy)
	assert.Equal(t, "sqlite", cfg.Plugins.Scripts.StoreDriver)
	assert.Equal(t, "/", cfg.UI.StartPage)
	assert.Equal(t, 3*time.Second, cfg.UI.ToastDuration)
	assert.Empty(t, cfg.Metrics.Addr)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Corrections(t *testing.T) {
	cfg := Default()
	cfg.UI.ToastDuration = -1
	cfg.UI.StartPage = ""
	cfg.Plugins.Scripts.OverlapPolicy = "sometimes"
	cfg.Plugins.Scripts.StoreDriver = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, "/", cfg.UI.StartPage)
	assert.Equal(t, "reject", cfg.Plugins.Scripts.OverlapPolicy)
	assert.Equal(t, "sqlite", cfg.Plugins.Scripts.StoreDriver)
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Plugins.Scripts.StoreDriver = "postgres"

	err := cfg.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "plugins.scripts.storeDriver", verr.Field)
}

func TestLoadFrom_Missing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"plugins": {
			"concat": {"watch": false},
			"scripts": {"overlapPolicy": "queue", "storeDriver": "sqlite3"}
		},
		"ui": {"toastDuration": "5s", "startPage": "/scripts"},
		"metrics": {"addr": ":9109"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.Plugins.Concat.Enabled, "absent keys keep defaults")
	assert.False(t, cfg.Plugins.Concat.Watch)
	assert.Equal(t, "queue", cfg.Plugins.Scripts.OverlapPolicy)
	assert.Equal(t, "sqlite3", cfg.Plugins.Scripts.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, "/scripts", cfg.UI.StartPage)
	assert.True(t, cfg.UI.ShowFooter)
	assert.Equal(t, ":9109", cfg.Metrics.Addr)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"bad duration", `{"ui": {"toastDuration": "soon"}}`},
		{"bad driver", `{"plugins": {"scripts": {"storeDriver": "mysql"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTripPreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"keymap": {"overrides": {"q": "noop"}}}`), 0644))

	cfg := Default()
	cfg.UI.ToastDuration = 1500 * time.Millisecond
	cfg.Plugins.Scripts.OverlapPolicy = "allow"
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	var raw map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "keymap")
	assert.JSONEq(t, `{"overrides": {"q": "noop"}}`, string(raw["keymap"]))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "db", "s.db"), expandPath("~/db/s.db"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.Equal(t, "~user/x", expandPath("~user/x"))
}

func TestScriptsDBPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	cfg := Default()
	assert.Equal(t, filepath.Join("/tmp/state", "workbench", "scripts.db"), cfg.ScriptsDBPath())

	cfg.Plugins.Scripts.StorePath = "/data/s.db"
	assert.Equal(t, "/data/s.db", cfg.ScriptsDBPath())
}
