// Package config provides persistent application preferences for the
// sequencer. The recorded sequences themselves live in document files;
// this is only the app-level settings.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Config represents the application configuration
type Config struct {
	// General contains general application settings
	General GeneralConfig `json:"general"`

	// Recording contains capture-side settings
	Recording RecordingConfig `json:"recording"`

	// Playback contains replay-side settings
	Playback PlaybackConfig `json:"playback"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// APIEnabled enables the HTTP control server
	APIEnabled bool `json:"api_enabled"`

	// APIPort is the port for the API server
	APIPort int `json:"api_port"`

	// APIToken is an optional authentication token for API requests
	APIToken string `json:"api_token,omitempty"`

	// ShowTray enables the system tray icon
	ShowTray bool `json:"show_tray"`

	// LastFile is the most recently saved or loaded sequence path
	LastFile string `json:"last_file,omitempty"`
}

// RecordingConfig contains capture-side settings
type RecordingConfig struct {
	// MoveResolution records every Nth pointer move event
	MoveResolution int `json:"move_resolution"`

	// ClearBeforeRecording starts each take from an empty sequence
	ClearBeforeRecording bool `json:"clear_before_recording"`

	// RecordHotkey toggles recording globally (e.g. "F8")
	RecordHotkey string `json:"record_hotkey,omitempty"`
}

// PlaybackConfig contains replay-side settings
type PlaybackConfig struct {
	// Speed is the default playback rate
	Speed float64 `json:"speed"`

	// Repeats is the default number of runs per play
	Repeats int `json:"repeats"`

	// StopHotkey halts playback globally (e.g. "Esc")
	StopHotkey string `json:"stop_hotkey,omitempty"`

	// FailsafeEnabled stops playback when the pointer reaches the
	// left screen edge, so a runaway sequence can always be escaped.
	FailsafeEnabled bool `json:"failsafe_enabled"`

	// FailsafeEdge is the screen x coordinate that trips the failsafe
	FailsafeEdge float64 `json:"failsafe_edge"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			APIEnabled: true,
			APIPort:    18090,
			ShowTray:   true,
		},
		Recording: RecordingConfig{
			MoveResolution:       20,
			ClearBeforeRecording: true,
			RecordHotkey:         "F8",
		},
		Playback: PlaybackConfig{
			Speed:           1.0,
			Repeats:         1,
			StopHotkey:      "Esc",
			FailsafeEnabled: true,
			FailsafeEdge:    0,
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
		configDir = filepath.Join(home, "Library", "Application Support", "macroseq")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "macroseq")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "macroseq")
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
	m.sanitize()
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// sanitize repairs values an edited config file could break
func (m *Manager) sanitize() {
	if m.config.Recording.MoveResolution < 1 {
		m.config.Recording.MoveResolution = 20
	}
	if m.config.Playback.Speed <= 0 {
		m.config.Playback.Speed = 1.0
	}
	if m.config.Playback.Repeats < 1 {
		m.config.Playback.Repeats = 1
	}
	if m.config.General.APIPort <= 0 || m.config.General.APIPort > 65535 {
		m.config.General.APIPort = 18090
	}
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
	m.sanitize()
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// SetLastFile records the most recently saved or loaded sequence path
func (m *Manager) SetLastFile(path string) {
	m.mu.Lock()
	m.config.General.LastFile = path
	m.mu.Unlock()
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
