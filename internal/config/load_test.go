// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 9090
public_url = "https://movies.example"

[catalog]
default_language = "English"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.DefaultLanguage != "English" {
		t.Errorf("expected language English, got %s", cfg.Catalog.DefaultLanguage)
	}
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("MISSING_BOT_TOKEN")
	cfgPath := writeConfig(t, `
[telegram]
bot_token = "${MISSING_BOT_TOKEN}"
webhook_secret = "s3cret"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for missing env var")
	}
	if !strings.Contains(err.Error(), "MISSING_BOT_TOKEN") {
		t.Errorf("expected MISSING_BOT_TOKEN in error, got %v", err)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 99999
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected server.port in error, got %v", err)
	}
}

func TestLoad_CollectsAllProblems(t *testing.T) {
	os.Unsetenv("NOPE_VAR")
	cfgPath := writeConfig(t, `
[server]
port = 99999
log_level = "loud"

[admin]
username = "${NOPE_VAR}"
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"NOPE_VAR", "server.port", "server.log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in error, got %v", want, err)
		}
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfgPath := writeConfig(t, ``)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "./data/moviezone.db" {
		t.Errorf("expected default database path, got %s", cfg.Database.Path)
	}
	if cfg.Catalog.DefaultCategory != "Latest" {
		t.Errorf("expected default category Latest, got %s", cfg.Catalog.DefaultCategory)
	}
}

func TestLoadWithoutValidation(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 99999
`)

	cfg, err := LoadWithoutValidation(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 99999 {
		t.Errorf("expected port 99999, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("OPTIONAL_VAR")
	cfgPath := writeConfig(t, `
[server]
host = "${OPTIONAL_VAR:-localhost}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", cfg.Server.Host)
	}
}

func TestLoad_AnnounceChatIDs(t *testing.T) {
	cfgPath := writeConfig(t, `
[telegram]
bot_token = "123:abc"
webhook_secret = "s3cret"
announce_chat_ids = [-1001234567890, -1009876543210]
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Telegram.AnnounceChatIDs) != 2 {
		t.Fatalf("expected 2 chat ids, got %d", len(cfg.Telegram.AnnounceChatIDs))
	}
	if cfg.Telegram.AnnounceChatIDs[0] != -1001234567890 {
		t.Errorf("unexpected first chat id: %d", cfg.Telegram.AnnounceChatIDs[0])
	}
}
