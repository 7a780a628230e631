// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Server.PublicURL != "" {
		if u, err := url.Parse(c.Server.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("server.public_url: must be an absolute URL, got %q", c.Server.PublicURL))
		}
	}

	// Admin validation: username and password come as a pair.
	if c.Admin.Username != "" && c.Admin.Password == "" {
		errs = append(errs, "admin.password: required when admin.username is set")
	}
	if c.Admin.Username == "" && c.Admin.Password != "" {
		errs = append(errs, "admin.username: required when admin.password is set")
	}

	// Telegram validation. webhook_secret is deliberately optional so a
	// local bot can run without one; the webhook route only enforces it
	// when set.
	if c.Telegram.BotToken != "" && !strings.Contains(c.Telegram.BotToken, ":") {
		errs = append(errs, "telegram.bot_token: malformed, expected <id>:<secret>")
	}
	if len(c.Telegram.AnnounceChatIDs) > 0 && c.Telegram.BotToken == "" {
		errs = append(errs, "telegram.announce_chat_ids: requires telegram.bot_token")
	}

	// Relay validation
	if c.Relay.UpstreamTimeoutSeconds < 0 {
		errs = append(errs, fmt.Sprintf("relay.upstream_timeout_seconds: must not be negative, got %d", c.Relay.UpstreamTimeoutSeconds))
	}

	return errs
}
