// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func assertError(t *testing.T, errs []string, substr string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return
		}
	}
	t.Errorf("expected an error containing %q, got %v", substr, errs)
}

func TestValidate_Defaults(t *testing.T) {
	if errs := validConfig().Validate(); len(errs) != 0 {
		t.Errorf("expected default config to be valid, got %v", errs)
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	assertError(t, cfg.Validate(), "server.port")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Server.LogLevel = "verbose"
	assertError(t, cfg.Validate(), "server.log_level")
}

func TestValidate_PublicURL(t *testing.T) {
	cfg := validConfig()
	cfg.Server.PublicURL = "movies.example/path"
	assertError(t, cfg.Validate(), "server.public_url")

	cfg.Server.PublicURL = "https://movies.example"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected absolute URL to validate, got %v", errs)
	}
}

func TestValidate_AdminPair(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Username = "admin"
	assertError(t, cfg.Validate(), "admin.password")

	cfg = validConfig()
	cfg.Admin.Password = "hunter2"
	assertError(t, cfg.Validate(), "admin.username")
}

func TestValidate_TelegramToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.BotToken = "no-colon-here"
	assertError(t, cfg.Validate(), "telegram.bot_token")
}

func TestValidate_WebhookSecretOptional(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.BotToken = "123:abc"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected token without webhook secret to validate, got %v", errs)
	}
}

func TestValidate_AnnounceNeedsToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AnnounceChatIDs = []int64{-100}
	assertError(t, cfg.Validate(), "telegram.announce_chat_ids")
}

func TestValidate_RelayTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.UpstreamTimeoutSeconds = -5
	assertError(t, cfg.Validate(), "relay.upstream_timeout_seconds")
}
