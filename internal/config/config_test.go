package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managerAt(t *testing.T, path string) *Manager {
	t.Helper()
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.General.ShowNotifications)
	assert.False(t, cfg.General.ShowTray)
	assert.False(t, cfg.General.StartOnBoot)
	assert.Zero(t, cfg.General.HostPort)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m := managerAt(t, path)
	cfg := m.Get()
	cfg.General.HostPort = 28196
	cfg.General.ShowTray = true
	m.Set(cfg)
	require.NoError(t, m.Save())

	m2 := managerAt(t, path)
	require.NoError(t, m2.Load())
	assert.Equal(t, 28196, m2.Get().General.HostPort)
	assert.True(t, m2.Get().General.ShowTray)
	assert.True(t, m2.Get().General.ShowNotifications)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := managerAt(t, filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, m.Load())
	assert.True(t, m.Get().General.ShowNotifications)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DECKSWITCH_PORT", "31234")
	t.Setenv("DECKSWITCH_NOTIFY", "false")
	t.Setenv("DECKSWITCH_TRAY", "1")

	m := managerAt(t, filepath.Join(t.TempDir(), "config.json"))
	m.ApplyEnv()

	cfg := m.Get()
	assert.Equal(t, 31234, cfg.General.HostPort)
	assert.False(t, cfg.General.ShowNotifications)
	assert.True(t, cfg.General.ShowTray)
}

func TestApplyEnvInvalidPortIgnored(t *testing.T) {
	t.Setenv("DECKSWITCH_PORT", "not-a-port")

	m := managerAt(t, filepath.Join(t.TempDir(), "config.json"))
	m.ApplyEnv()

	assert.Zero(t, m.Get().General.HostPort)
}

func TestChangeCallbackFires(t *testing.T) {
	m := managerAt(t, filepath.Join(t.TempDir(), "config.json"))

	fired := 0
	m.RegisterChangeCallback(func() { fired++ })

	cfg := m.Get()
	cfg.General.ShowTray = true
	m.Set(cfg)

	assert.Equal(t, 1, fired)
}
