// Package config loads the TOML configuration shared by the bot and the
// detection service, with sane defaults and a few environment overrides for
// secrets that should not live in a file.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultBotAddr        = ":8443"
	DefaultDetectorAddr   = ":8081"
	DefaultDetectorURL    = "http://localhost:8081"
	DefaultBucket         = "snapsight"
	DefaultStagingDir     = "photos"
	DefaultStorageRoot    = "data"
	DefaultTimeoutSeconds = 60
	DefaultBlurLevel      = 16
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "snapsight"
	DefaultPGSSLMode      = "disable"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Storage  StorageConfig  `toml:"storage"`
	Detector DetectorConfig `toml:"detector"`
	Model    ModelConfig    `toml:"model"`
	Postgres PostgresConfig `toml:"postgres"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type TelegramConfig struct {
	Token      string `toml:"token"`
	WebhookURL string `toml:"webhook_url"`
	StagingDir string `toml:"staging_dir"`
	BlurLevel  int    `toml:"blur_level"`
}

type StorageConfig struct {
	Root   string `toml:"root"`
	Bucket string `toml:"bucket"`
}

type DetectorConfig struct {
	Addr           string `toml:"addr"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	WorkDir        string `toml:"work_dir"`
}

type ModelConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultBotAddr,
		},
		Telegram: TelegramConfig{
			StagingDir: DefaultStagingDir,
			BlurLevel:  DefaultBlurLevel,
		},
		Storage: StorageConfig{
			Root:   DefaultStorageRoot,
			Bucket: DefaultBucket,
		},
		Detector: DetectorConfig{
			Addr:           DefaultDetectorAddr,
			BaseURL:        DefaultDetectorURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets deployments inject secrets and endpoints without editing the
// config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_APP_URL"); v != "" {
		cfg.Telegram.WebhookURL = v
	}
	if v := os.Getenv("DETECTOR_URL"); v != "" {
		cfg.Detector.BaseURL = v
	}
	if v := os.Getenv("BUCKET_NAME"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
}
