package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return &Manager{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		config:     DefaultConfig(),
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := testManager(t)

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.General.APIPort != 18090 {
		t.Errorf("APIPort = %d, want 18090", cfg.General.APIPort)
	}
	if cfg.Recording.MoveResolution != 20 {
		t.Errorf("MoveResolution = %d, want 20", cfg.Recording.MoveResolution)
	}
	if cfg.Playback.Speed != 1.0 {
		t.Errorf("Speed = %v, want 1.0", cfg.Playback.Speed)
	}
}

func TestLoadSanitizesBadValues(t *testing.T) {
	m := testManager(t)

	raw := `{
		"general": {"api_port": -1},
		"recording": {"move_resolution": 0},
		"playback": {"speed": -2.0, "repeats": 0}
	}`
	if err := os.WriteFile(m.configPath, []byte(raw), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.General.APIPort != 18090 {
		t.Errorf("APIPort = %d, want repaired 18090", cfg.General.APIPort)
	}
	if cfg.Recording.MoveResolution != 20 {
		t.Errorf("MoveResolution = %d, want repaired 20", cfg.Recording.MoveResolution)
	}
	if cfg.Playback.Speed != 1.0 {
		t.Errorf("Speed = %v, want repaired 1.0", cfg.Playback.Speed)
	}
	if cfg.Playback.Repeats != 1 {
		t.Errorf("Repeats = %d, want repaired 1", cfg.Playback.Repeats)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := testManager(t)

	m.SetLastFile("demo.json")

	cfg := m.Get()
	cfg.Playback.Speed = 2.5
	m.Set(cfg)

	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := &Manager{configPath: m.configPath, config: DefaultConfig()}
	if err := other.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := other.Get()
	if got.General.LastFile != "demo.json" {
		t.Errorf("LastFile = %q, want %q", got.General.LastFile, "demo.json")
	}
	if got.Playback.Speed != 2.5 {
		t.Errorf("Speed = %v, want 2.5", got.Playback.Speed)
	}
}

func TestChangeCallbackFiresOnLoad(t *testing.T) {
	m := testManager(t)

	fired := false
	m.RegisterChangeCallback(func() { fired = true })

	if err := os.WriteFile(m.configPath, []byte(`{}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !fired {
		t.Error("change callback did not fire on Load")
	}
}
