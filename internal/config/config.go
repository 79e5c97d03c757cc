package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BacBoScanner/internal/extract"
)

const (
	configPathEnv     = "BACBO_SCANNER_CONFIG"
	targetURLEnv      = "BACBO_URL"
	headlessEnv       = "HEADLESS"
	portEnv           = "PORT"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds the settings required across the application.
type Config struct {
	Language      string             `yaml:"language"`
	Target        TargetConfig       `yaml:"target"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Alerts        AlertConfig        `yaml:"alerts"`
	Notifications NotificationConfig `yaml:"notifications"`
	OCR           OCRConfig          `yaml:"ocr"`
	WebUI         WebUIConfig        `yaml:"webui"`
	Extraction    extract.Params     `yaml:"extraction"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// TargetConfig describes the observed page and browser session.
type TargetConfig struct {
	URL               string `yaml:"url"`
	Headless          bool   `yaml:"headless"`
	NavTimeoutSeconds int    `yaml:"navTimeoutSeconds"`
	ViewportWidth     int    `yaml:"viewportWidth"`
	ViewportHeight    int    `yaml:"viewportHeight"`
}

// NavTimeout resolves the element-wait bound as a duration.
func (t TargetConfig) NavTimeout() time.Duration {
	if t.NavTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(t.NavTimeoutSeconds) * time.Second
}

// SchedulerConfig defines how often observation cycles run.
type SchedulerConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Interval resolves the cycle period.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.IntervalSeconds) * time.Second
}

// AlertConfig is the notification policy.
type AlertConfig struct {
	PlayerThreshold       float64 `yaml:"playerThreshold"`
	CooldownSeconds       int     `yaml:"cooldownSeconds"`
	StatusIntervalSeconds int     `yaml:"statusIntervalSeconds"`
	StatusDelta           float64 `yaml:"statusDelta"`
}

// Cooldown resolves the minimum gap between entry alerts.
func (a AlertConfig) Cooldown() time.Duration {
	return time.Duration(a.CooldownSeconds) * time.Second
}

// StatusInterval resolves the periodic status cadence.
func (a AlertConfig) StatusInterval() time.Duration {
	return time.Duration(a.StatusIntervalSeconds) * time.Second
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// OCRConfig points at the external recognition engine.
type OCRConfig struct {
	Binary   string `yaml:"binary"`
	Language string `yaml:"language"`
}

// WebUIConfig describes the control page server.
type WebUIConfig struct {
	Addr      string `yaml:"addr"`
	AutoStart bool   `yaml:"autoStart"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) on top of defaults and then
// applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(targetURLEnv); v != "" {
		c.Target.URL = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(headlessEnv); v != "" {
		c.Target.Headless = strings.EqualFold(v, "true")
	}
	// Hosted platforms hand out the listen port and imply headless.
	if v := os.Getenv(portEnv); v != "" {
		c.WebUI.Addr = ":" + v
		c.Target.Headless = true
	}
}

func defaultConfig() Config {
	return Config{
		Language: "en",
		Target: TargetConfig{
			URL:               "https://www.vemabet10.com/pt/game/bac-bo/play-for-real",
			Headless:          true,
			NavTimeoutSeconds: 30,
			ViewportWidth:     1366,
			ViewportHeight:    900,
		},
		Scheduler: SchedulerConfig{IntervalSeconds: 5},
		Alerts: AlertConfig{
			PlayerThreshold:       98,
			CooldownSeconds:       30,
			StatusIntervalSeconds: 30,
			StatusDelta:           3,
		},
		OCR:        OCRConfig{Binary: "tesseract", Language: "eng"},
		WebUI:      WebUIConfig{Addr: ":8080", AutoStart: true},
		Extraction: extract.DefaultParams(),
		Logging:    LoggingConfig{Level: "info"},
	}
}
