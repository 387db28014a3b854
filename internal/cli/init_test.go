package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aheadhealth/onboard/internal/config"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalFunc := configDirFunc
	configDirFunc = func() string {
		return tempDir
	}
	originalConfig := appConfig
	cfg := config.DefaultConfig()
	cfg.Global.DataDir = filepath.Join(tempDir, "data")
	cfg.Global.SequencesDir = ""
	appConfig = &cfg

	t.Cleanup(func() {
		configDirFunc = originalFunc
		appConfig = originalConfig
	})
	return tempDir
}

func TestCreateConfigFile(t *testing.T) {
	tempDir := useTempConfig(t)

	originalForce := initForce
	initForce = true
	defer func() {
		initForce = originalForce
	}()

	result := createConfigFile()

	if result.status != "done" {
		t.Errorf("expected status 'done', got %q: %s", result.status, result.message)
	}

	configPath := filepath.Join(tempDir, "config.yaml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	if !strings.Contains(string(content), "Onboard Configuration File") {
		t.Error("config file doesn't contain expected header")
	}
	if !strings.Contains(string(content), "show_reveal_status_message: true") {
		t.Error("config file doesn't contain expected default")
	}
}

func TestCreateConfigFile_ExistingNoForce(t *testing.T) {
	tempDir := useTempConfig(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
		t.Fatalf("failed to create existing config: %v", err)
	}

	originalForce := initForce
	initForce = false
	defer func() {
		initForce = originalForce
	}()

	result := createConfigFile()

	if result.status != "skipped" {
		t.Errorf("expected status 'skipped', got %q: %s", result.status, result.message)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing" {
		t.Error("existing config was modified")
	}
}

func TestCreateDataDirAndDatabase(t *testing.T) {
	useTempConfig(t)
	t.Setenv("ONBOARD_NO_PROGRESS", "1")

	if r := createDataDir(); r.status != "done" {
		t.Fatalf("expected data dir to be created, got %q: %s", r.status, r.message)
	}
	if r := createDataDir(); r.status != "skipped" {
		t.Fatalf("expected existing data dir to be skipped, got %q", r.status)
	}

	r := initDatabase()
	if r.status != "done" {
		t.Fatalf("expected database to be created, got %q: %s", r.status, r.message)
	}
	if _, err := os.Stat(r.message); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestInitResult_Structure(t *testing.T) {
	results := []initResult{
		{name: "Step 1", status: "done", message: "OK"},
		{name: "Step 2", status: "skipped", message: "Already exists"},
		{name: "Step 3", status: "failed", message: "Something went wrong"},
	}

	validStatuses := map[string]bool{"done": true, "skipped": true, "failed": true}
	for i, r := range results {
		if r.name == "" {
			t.Errorf("result %d has empty name", i)
		}
		if !validStatuses[r.status] {
			t.Errorf("result %d has invalid status: %s", i, r.status)
		}
	}

	data, err := results[0].MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `{"name":"Step 1","status":"done","message":"OK"}` {
		t.Fatalf("unexpected JSON %s", data)
	}
}

func TestParseEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"", "0s", false},
		{"1500ms", "1.5s", true},
		{"3", "3s", true},
		{"soon", "0s", false},
	}
	for _, tt := range tests {
		got, ok := parseEnvDuration(tt.value)
		if ok != tt.ok || got.String() != tt.want {
			t.Errorf("parseEnvDuration(%q) = %v, %v; want %s, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPreflightError(t *testing.T) {
	err := &PreflightError{Message: "broken", Hint: "fix it", NextStep: "onboard init"}
	want := "broken\nHint: fix it\nNext: onboard init"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
