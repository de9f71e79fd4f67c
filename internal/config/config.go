package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Dispatch DispatchConfig `yaml:"dispatch"`

	RateLimit struct {
		RespondLimit  int `yaml:"respond_limit"`  // requests per window per client
		WindowSeconds int `yaml:"window_seconds"` // TTL of the counter
	} `yaml:"rate_limit"`
}

// DispatchConfig tunes the fulfillment engine.
type DispatchConfig struct {
	// Fraction of the response window after which one reminder goes out.
	ReminderPercentage float64 `yaml:"reminder_percentage"`
	// Provider concurrency ceiling for outbound notifications.
	NotifyBatchSize int `yaml:"notify_batch_size"`
	// Pause between notification groups, milliseconds.
	NotifyDelayMs int `yaml:"notify_delay_ms"`
	// Transaction timeout for bulk rank rewrites, seconds.
	RankRewriteTimeoutSec int `yaml:"rank_rewrite_timeout_sec"`
}

func (d DispatchConfig) NotifyDelay() time.Duration {
	return time.Duration(d.NotifyDelayMs) * time.Millisecond
}

func (d DispatchConfig) RankRewriteTimeout() time.Duration {
	return time.Duration(d.RankRewriteTimeoutSec) * time.Second
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment-variable mode (tests and containerized deployments).
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Dispatch.ReminderPercentage <= 0 || cfg.Dispatch.ReminderPercentage >= 1 {
		cfg.Dispatch.ReminderPercentage = 0.75
	}
	if cfg.Dispatch.NotifyBatchSize <= 0 {
		cfg.Dispatch.NotifyBatchSize = 2
	}
	if cfg.Dispatch.NotifyDelayMs <= 0 {
		cfg.Dispatch.NotifyDelayMs = 1000
	}
	if cfg.Dispatch.RankRewriteTimeoutSec <= 0 {
		cfg.Dispatch.RankRewriteTimeoutSec = 10
	}
	if cfg.RateLimit.RespondLimit <= 0 {
		cfg.RateLimit.RespondLimit = 30
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
