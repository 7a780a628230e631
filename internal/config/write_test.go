// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Error("expected [server] section in default config")
	}
	if !strings.Contains(string(data), "[telegram]") {
		t.Error("expected [telegram] section in default config")
	}
}

func TestWrite_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := validConfig()
	cfg.Server.Port = 9191
	cfg.Telegram.AnnounceChatIDs = []int64{-100123}

	if err := cfg.Write(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadWithoutValidation(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if got.Server.Port != 9191 {
		t.Errorf("expected port 9191, got %d", got.Server.Port)
	}
	if len(got.Telegram.AnnounceChatIDs) != 1 || got.Telegram.AnnounceChatIDs[0] != -100123 {
		t.Errorf("unexpected chat ids: %v", got.Telegram.AnnounceChatIDs)
	}
}
