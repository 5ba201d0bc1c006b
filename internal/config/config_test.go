package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(APIURLEnv, "")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != DefaultAPIURL {
		t.Errorf("expected %q, got %q", DefaultAPIURL, cfg.APIURL())
	}
	if cfg.Theme() != ThemeLight {
		t.Errorf("expected light theme, got %q", cfg.Theme())
	}
}

func TestNew_LoadsSettings(t *testing.T) {
	t.Setenv(APIURLEnv, "")
	dir := t.TempDir()
	content := "api_url: https://tasks.example.com/api/\ntheme: Dark\n"
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "https://tasks.example.com/api" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIURL())
	}
	if cfg.Theme() != ThemeDark {
		t.Errorf("expected dark theme, got %q", cfg.Theme())
	}
}

func TestNew_EnvOverridesSettings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte("api_url: http://a\n"), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	t.Setenv(APIURLEnv, "http://b")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://b" {
		t.Errorf("expected env override, got %q", cfg.APIURL())
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte("theme: [unclosed\n"), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	t.Setenv(APIURLEnv, "")
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &Config{Dir: dir}
	cfg.Settings.Theme = ThemeDark

	if err := cfg.SaveSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Theme() != ThemeDark {
		t.Errorf("expected dark theme after reload, got %q", loaded.Theme())
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestNew_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.NoColor {
		t.Error("expected NO_COLOR to disable color")
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	if cfg.Location() != time.Local {
		t.Error("expected local time by default")
	}
	cfg.TZ = time.UTC
	if cfg.Location() != time.UTC {
		t.Error("expected configured zone")
	}
}

func TestNew_EnvFile(t *testing.T) {
	t.Setenv(APIURLEnv, "")
	t.Setenv(TZEnv, "")
	dir := t.TempDir()
	content := "# local overrides\nTODO_API_URL=http://10.0.0.5:8000/api\nTODO_TZ=Europe/Moscow\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://10.0.0.5:8000/api" {
		t.Errorf("expected API URL from %s, got %q", EnvFile, cfg.APIURL())
	}
	if cfg.Location().String() != "Europe/Moscow" {
		t.Errorf("expected Europe/Moscow, got %q", cfg.Location())
	}
	if os.Getenv(APIURLEnv) != "" {
		t.Error("the env file must not modify the process environment")
	}

	t.Setenv(APIURLEnv, "http://override/api")
	cfg, err = New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL() != "http://override/api" {
		t.Errorf("expected the process environment to win, got %q", cfg.APIURL())
	}
}

func TestNew_InvalidTZ(t *testing.T) {
	t.Setenv(TZEnv, "Mars/Olympus")
	if _, err := New(t.TempDir()); err == nil {
		t.Error("expected error for unknown time zone")
	}
}
