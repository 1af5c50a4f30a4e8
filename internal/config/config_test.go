package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// useConfigPath points ConfigPath at path for the duration of the test
func useConfigPath(t *testing.T, path string) {
	t.Helper()
	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = originalConfigPath
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TomboyDir == "" {
		t.Error("Expected TomboyDir to be set")
	}
	if cfg.ZimDir == "" {
		t.Error("Expected ZimDir to be set")
	}
	if cfg.NotebookName != "Tomboy Notes" {
		t.Errorf("Expected NotebookName 'Tomboy Notes', got %q", cfg.NotebookName)
	}
	if cfg.StartNote != "Starts Here" {
		t.Errorf("Expected StartNote 'Starts Here', got %q", cfg.StartNote)
	}
	if cfg.Workers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TomboyDir:    "/path/to/tomboy",
			ZimDir:       "/path/to/zim",
			NotebookName: "Notes",
			StartNote:    "Home",
			Workers:      2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty tomboy_dir",
			mutate:  func(c *Config) { c.TomboyDir = "" },
			wantErr: true,
		},
		{
			name:    "empty zim_dir",
			mutate:  func(c *Config) { c.ZimDir = "" },
			wantErr: true,
		},
		{
			name:    "empty notebook name",
			mutate:  func(c *Config) { c.NotebookName = "" },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad exclude pattern",
			mutate:  func(c *Config) { c.ExcludePatterns = []string{"[unclosed"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.yaml")
	useConfigPath(t, testConfigPath)

	testCfg := &Config{
		TomboyDir:       "/test/tomboy",
		ZimDir:          "/test/zim",
		NotebookName:    "Work",
		StartNote:       "Index",
		LogFile:         "/tmp/tomzim-test.log",
		LogLevel:        "debug",
		Workers:         3,
		Debounce:        2 * time.Second,
		ExcludePatterns: []string{"*-draft.note"},
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(testConfigPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.NotebookName != "Work" {
		t.Errorf("NotebookName mismatch: got %q, want %q", loadedCfg.NotebookName, "Work")
	}
	if loadedCfg.Workers != 3 {
		t.Errorf("Workers mismatch: got %d, want 3", loadedCfg.Workers)
	}
	if loadedCfg.Debounce != 2*time.Second {
		t.Errorf("Debounce mismatch: got %v, want 2s", loadedCfg.Debounce)
	}
	if len(loadedCfg.ExcludePatterns) != 1 || loadedCfg.ExcludePatterns[0] != "*-draft.note" {
		t.Errorf("ExcludePatterns mismatch: got %v", loadedCfg.ExcludePatterns)
	}
	if loadedCfg.LogFile == "" {
		t.Error("LogFile should not be empty")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "nonexistent.yaml"))

	// Load should return default config when file doesn't exist
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.NotebookName != "Tomboy Notes" {
		t.Errorf("Expected default notebook name, got %q", cfg.NotebookName)
	}
	if cfg.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Debounce)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("zim_dir: /srv/zim\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.ZimDir != "/srv/zim" {
		t.Errorf("ZimDir = %q, want /srv/zim", cfg.ZimDir)
	}
	if cfg.StartNote != "Starts Here" {
		t.Errorf("StartNote = %q, want default", cfg.StartNote)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TOMZIM_TEST_ROOT", "/env/root")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tomboy_dir: ${TOMZIM_TEST_ROOT}/tomboy\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.TomboyDir != "/env/root/tomboy" {
		t.Errorf("TomboyDir = %q, want /env/root/tomboy", cfg.TomboyDir)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error for negative workers")
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		contains string // The output should contain this
	}{
		{
			name:     "tilde expansion",
			input:    "~/test",
			contains: homeDir,
		},
		{
			name:     "tilde only",
			input:    "~",
			contains: homeDir,
		},
		{
			name:     "absolute path",
			input:    "/tmp/test",
			contains: "/tmp/test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if result == "" {
				t.Error("expandPath() returned empty string")
			}
			// Just verify it's not the original unexpanded path
			if tt.input[0] == '~' && result == tt.input {
				t.Errorf("Path was not expanded: %s", result)
			}
		})
	}
}

func TestConfigPathsExpanded(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.yaml"))

	testCfg := DefaultConfig()
	testCfg.TomboyDir = "~/tomboy"
	testCfg.ZimDir = "~/Notebooks/zim"
	testCfg.LogFile = "~/tomzim.log"

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.TomboyDir[0] == '~' {
		t.Error("TomboyDir was not expanded")
	}
	if loadedCfg.ZimDir[0] == '~' {
		t.Error("ZimDir was not expanded")
	}
	if loadedCfg.LogFile[0] == '~' {
		t.Error("LogFile was not expanded")
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tomzim.yaml")

	cfg := DefaultConfig()
	cfg.NotebookName = "Archive"
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.NotebookName != "Archive" {
		t.Errorf("NotebookName = %q, want Archive", loaded.NotebookName)
	}
}
