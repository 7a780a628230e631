// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Admin    AdminConfig    `toml:"admin"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Telegram TelegramConfig `toml:"telegram"`
	Relay    RelayConfig    `toml:"relay"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// PublicURL is the externally reachable base URL, used to build
	// watch links in announcements.
	PublicURL string `toml:"public_url"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AdminConfig guards the admin API. An empty username disables the
// admin surface entirely.
type AdminConfig struct {
	Username string `toml:"username"`
	// Password is either a bcrypt hash ($2a$...) or a plain value.
	Password string `toml:"password"`
}

type CatalogConfig struct {
	DefaultLanguage string `toml:"default_language"`
	DefaultCategory string `toml:"default_category"`
}

// TelegramConfig configures the ingestion bot. An empty token disables
// both ingestion and announcements.
type TelegramConfig struct {
	BotToken        string  `toml:"bot_token"`
	WebhookSecret   string  `toml:"webhook_secret"`
	AnnounceChatIDs []int64 `toml:"announce_chat_ids"`
	// FileBaseURL overrides the Bot API file host, for local API servers.
	FileBaseURL string `toml:"file_base_url"`
}

type RelayConfig struct {
	// UpstreamTimeoutSeconds bounds a single upstream fetch. Zero means
	// the built-in default.
	UpstreamTimeoutSeconds int `toml:"upstream_timeout_seconds"`
}

// Load reads, parses, and validates the configuration file. Unresolved
// environment variables and validation problems are collected into a
// single *ConfigError rather than failing one at a time.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file,
// skipping validation. Unresolved environment variables are left as-is.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

// defaultConfig is the annotated starter file written by --init. Secrets
// are left as ${VAR:-} references so they stay out of the file itself.
//
//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the annotated starter config to path, creating
// parent directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

// Write renders the current configuration as TOML at path. Values that
// came from environment substitution are written resolved.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/moviezone.db"
	}
	if c.Catalog.DefaultLanguage == "" {
		c.Catalog.DefaultLanguage = "Hindi"
	}
	if c.Catalog.DefaultCategory == "" {
		c.Catalog.DefaultCategory = "Latest"
	}
}

// substituteEnvVars replaces ${VAR} with environment variable values.
// ${VAR:-default} falls back to the default when VAR is unset or empty,
// ${VAR:?message} reports the message as missing. Plain ${VAR}
// references to unset variables are reported in missing.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := map[string]bool{}

	report := func(entry string) {
		if !seen[entry] {
			seen[entry] = true
			missing = append(missing, entry)
		}
	}

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // strip ${ and }

		if name, fallback, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return fallback
		}

		if name, message, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			report(fmt.Sprintf("%s: %s", name, message))
			return match
		}

		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		report(expr)
		return match
	})

	return result, missing
}
