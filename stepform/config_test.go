package stepform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %s", err.Error())
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "backend:\n  dir: ./controlplane\n")
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %s", err.Error())
	}
	if config.Port != 3000 || config.CookieName != "stepform-admin" || config.DBPath != "./stepform.db" {
		t.Fatalf("Defaults not applied: %+v", config)
	}
	if config.SessionTTL != 2*time.Hour || config.QueueLength != 100 {
		t.Fatalf("Defaults not applied: %+v", config)
	}
	if config.Backend.Dir != "./controlplane" {
		t.Fatalf("Backend dir not read: %+v", config.Backend)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `port: 8080
sessionTTL: 30m
allowedOrigins:
  - https://acme.test
backend:
  url: https://id.example.org
  clientId: stepform
  clientSecret: fromfile
  tokenUrl: https://id.example.org/oauth2/token
`)
	t.Setenv("STEPFORM_PORT", "4000")
	t.Setenv("STEPFORM_CLIENT_SECRET", "fromenv")
	t.Setenv("STEPFORM_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %s", err.Error())
	}
	if config.Port != 4000 {
		t.Fatalf("Port not overridden: %d", config.Port)
	}
	if config.SessionTTL != 30*time.Minute {
		t.Fatalf("Session TTL not read: %s", config.SessionTTL)
	}
	if config.Backend.ClientSecret != "fromenv" || config.Backend.ClientID != "stepform" {
		t.Fatalf("Backend credentials not read: %+v", config.Backend)
	}
	if len(config.AllowedOrigins) != 2 || config.AllowedOrigins[1] != "https://b.test" {
		t.Fatalf("Allowed origins not overridden: %v", config.AllowedOrigins)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "port: 3000\n")); err == nil {
		t.Fatal("Config without backend accepted")
	}
	if _, err := LoadConfig(writeConfig(t, "backend:\n  url: not a url\n")); err == nil {
		t.Fatal("Config with invalid backend URL accepted")
	}
	if _, err := LoadConfig(writeConfig(t, "backend:\n  dir: x\nallowedOrigins: [nope]\n")); err == nil || !strings.Contains(err.Error(), "AllowedOrigins") {
		t.Fatalf("Config with invalid origin accepted: %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, "backend:\n  url: https://id.example.org\n  clientId: x\n")); err == nil {
		t.Fatal("Client credentials without secret accepted")
	}
	t.Setenv("STEPFORM_PORT", "huge")
	if _, err := LoadConfig(writeConfig(t, "backend:\n  dir: x\n")); err == nil {
		t.Fatal("Invalid port override accepted")
	}
}

func TestNewStore(t *testing.T) {
	if _, err := NewStore(BackendConfig{}); err == nil {
		t.Fatal("Store created without backend")
	}
	if _, err := NewStore(BackendConfig{Dir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to create directory store: %s", err.Error())
	}
	if _, err := NewStore(BackendConfig{URL: "https://id.example.org", ClientID: "x", ClientSecret: "y", TokenURL: "https://id.example.org/token"}); err != nil {
		t.Fatalf("Failed to create API store: %s", err.Error())
	}
}
