package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	envTelegramBotToken  = "TELEGRAM_BOT_TOKEN"
	envTelegramAllowFrom = "TELEGRAM_ALLOW_FROM"
	envDeliveryAuthToken = "MINIBOT_AUTH_TOKEN"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Bot      BotConfig      `json:"bot"`
	Required []RequiredItem `json:"required,omitempty"`
	Delivery DeliveryConfig `json:"delivery"`
	Channels ChannelsConfig `json:"channels"`
	Gateway  GatewayConfig  `json:"gateway,omitempty"`
	Store    StoreConfig    `json:"store,omitempty"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
}

// StoreConfig locates the local data directory for brain snapshots. An
// empty dir means ~/.minibot/data.
type StoreConfig struct {
	Dir string `json:"dir,omitempty"`
}

// GatewayConfig controls the health and readiness endpoint listener.
type GatewayConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// BotConfig identifies the bot instance and its dispatch mode.
type BotConfig struct {
	TeamID string `json:"team_id"`
	BotID  string `json:"bot_id"`
	Debug  bool   `json:"debug"`
}

// RequiredItem declares one configuration value the robot's gate checks
// before running matched handlers.
type RequiredItem struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Mode     string `json:"mode"`
}

// DeliveryConfig configures the outbound messaging API client.
type DeliveryConfig struct {
	BaseURL          string `json:"base_url"`
	AuthToken        string `json:"auth_token,omitempty"`
	SetupURLTemplate string `json:"setup_url_template,omitempty"`
}

// ChannelsConfig stores transport adapter settings.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig configures Telegram channel integration.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allow_from"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// LoadConfig resolves config.json, unmarshals it, and applies environment
// overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// Validate checks the settings every run mode needs.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Bot.TeamID) == "" {
		return fmt.Errorf("bot.team_id is required")
	}
	if strings.TrimSpace(cfg.Bot.BotID) == "" {
		return fmt.Errorf("bot.bot_id is required")
	}
	return nil
}

// applyEnvOverrides injects secret-bearing settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if token := strings.TrimSpace(os.Getenv(envTelegramBotToken)); token != "" {
		cfg.Channels.Telegram.Token = token
	}

	if rawAllowFrom := strings.TrimSpace(os.Getenv(envTelegramAllowFrom)); rawAllowFrom != "" {
		cfg.Channels.Telegram.AllowFrom = parseCSV(rawAllowFrom)
	}

	if token := strings.TrimSpace(os.Getenv(envDeliveryAuthToken)); token != "" {
		cfg.Delivery.AuthToken = token
	}
}

// parseCSV splits comma-separated values and returns a trimmed compact slice.
func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}

	return slices.Clip(clean)
}

// findConfigPath resolves the active config file location.
//
// Precedence is MINIBOT_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("MINIBOT_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("MINIBOT_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
