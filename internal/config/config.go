// Package config provides configuration management for the plugin process.
// Per-control action trees are owned by the deck host and never stored
// here; this file only keeps plugin-side preferences.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
)

// Config represents the plugin configuration
type Config struct {
	// General contains general application settings
	General GeneralConfig `json:"general"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// HostPort is the deck host websocket port, used when the process is
	// started manually instead of by the host (which passes -port)
	HostPort int `json:"host_port,omitempty"`

	// ShowNotifications shows a desktop notification when the host
	// connection drops or recovers
	ShowNotifications bool `json:"show_notifications"`

	// ShowTray shows a status icon in the system tray
	ShowTray bool `json:"show_tray"`

	// StartOnBoot determines if the plugin starts on login
	StartOnBoot bool `json:"start_on_boot"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			ShowNotifications: true,
			ShowTray:          false,
			StartOnBoot:       false,
		},
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}, nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "deckswitch")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "deckswitch")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "deckswitch")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		// No config file, use defaults
		return nil
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, m.config); err != nil {
		return err
	}
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set updates the configuration
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// ApplyEnv overlays DECKSWITCH_* environment variables on the loaded
// configuration. Called after godotenv has populated the environment.
func (m *Manager) ApplyEnv() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v := os.Getenv("DECKSWITCH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Config: Invalid DECKSWITCH_PORT %q: %v", v, err)
		} else {
			m.config.General.HostPort = port
		}
	}
	if v := os.Getenv("DECKSWITCH_NOTIFY"); v != "" {
		m.config.General.ShowNotifications = v == "1" || v == "true"
	}
	if v := os.Getenv("DECKSWITCH_TRAY"); v != "" {
		m.config.General.ShowTray = v == "1" || v == "true"
	}
}
