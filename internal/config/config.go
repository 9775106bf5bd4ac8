// Package config handles configuration and endpoint resolution for wabliefteru.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinematen/wabliefteru/internal/models"
)

// Environment variables that override the webhook endpoint, highest precedence first
const (
	EnvWebhookURL     = "WABLIEFTERU_WEBHOOK_URL"
	EnvViteWebhookURL = "VITE_WEBHOOK_URL"
)

// EndpointSource tells where the resolved webhook URL came from
type EndpointSource string

const (
	SourceFlag    EndpointSource = "flag"
	SourceEnv     EndpointSource = "env"
	SourceConfig  EndpointSource = "config"
	SourceDefault EndpointSource = "default"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "wabliefteru", a glamour style, or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// WebhookURL overrides the built-in endpoint. Environment variables win over it.
	WebhookURL string `json:"webhook_url,omitempty"`
	// RequestTimeout bounds a single question in seconds. 0 waits indefinitely.
	RequestTimeout int `json:"request_timeout"`
	// StrictStatus treats non-2xx responses as failures. By default any
	// well-formed body is shown as the answer regardless of status.
	StrictStatus    bool           `json:"strict_status"`
	LogLevel        string         `json:"log_level"`
	LogFile         string         `json:"log_file,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "wabliefteru",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		RequestTimeout:  0,
		StrictStatus:    false,
		LogLevel:        "warn",
		CopyToClipboard: false,
		TUITheme:        "wabliefteru",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".wabliefteru"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, defaulting to the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wabliefteru.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none are
// given) into the environment. Missing files are not an error and variables
// that are already set are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ResolveWebhookURL picks the endpoint once at startup.
// Precedence: flag, WABLIEFTERU_WEBHOOK_URL, VITE_WEBHOOK_URL, config file, built-in default.
func ResolveWebhookURL(flagValue string, cfg Config) (string, EndpointSource, error) {
	candidates := []struct {
		value  string
		source EndpointSource
	}{
		{flagValue, SourceFlag},
		{os.Getenv(EnvWebhookURL), SourceEnv},
		{os.Getenv(EnvViteWebhookURL), SourceEnv},
		{cfg.WebhookURL, SourceConfig},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if err := ValidateWebhookURL(c.value); err != nil {
			return "", c.source, err
		}
		return c.value, c.source, nil
	}

	return models.DefaultWebhookURL, SourceDefault, nil
}

// ValidateWebhookURL checks that raw is an absolute http(s) URL
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid webhook URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid webhook URL %q: missing host", raw)
	}
	return nil
}
