package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		SavesDir: "/home/user/FarmingSimulator2025",
		BaseDir:  "/home/user/.local/share/fsedit",
		LogDir:   "/home/user/.local/share/fsedit/log",
		History:  HistoryConfig{Type: "sqlite", DataDir: "/home/user/.local/share/fsedit/db"},
		Backups:  BackupsConfig{Keep: 5},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.SavesDir != original.SavesDir {
		t.Errorf("SavesDir = %q, want %q", got.SavesDir, original.SavesDir)
	}
	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.History.Type != "sqlite" || got.History.DataDir != original.History.DataDir {
		t.Errorf("History = %+v", got.History)
	}
	if got.Backups.Keep != 5 {
		t.Errorf("Backups.Keep = %d, want 5", got.Backups.Keep)
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/saves", "/data/fsedit")

	if cfg.LogDir != filepath.Join("/data/fsedit", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.History.Type != "sqlite" {
		t.Errorf("History.Type = %q, want sqlite", cfg.History.Type)
	}
	if cfg.History.DataDir != filepath.Join("/data/fsedit", "db") {
		t.Errorf("History.DataDir = %q", cfg.History.DataDir)
	}
	if cfg.Backups.Keep != 10 {
		t.Errorf("Backups.Keep = %d, want 10", cfg.Backups.Keep)
	}
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `saves_dir = "/saves"
base_dir = "/data/fsedit"
log_dir = "/data/fsedit/log"

[history]
type = "memory"

[backups]
keep = 3
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if cfg.SavesDir != "/saves" || cfg.History.Type != "memory" || cfg.Backups.Keep != 3 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("ReadFromFile() expected error for missing file")
		}
	})
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsedit", "config.toml")
	cfg := NewConfig("/saves", "/data/fsedit")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second Init must refuse to clobber the existing file.
	if err := Init(path, cfg); err == nil {
		t.Error("Init() expected error for existing config")
	}
}
