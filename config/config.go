package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageBuntDB = "buntdb"
	StorageSQLite = "sqlite"
)

type Config struct {
	DataDir         string
	Storage         string
	ThresholdHours  float64
	TickInterval    time.Duration
	PollingInterval time.Duration
	FinishAfter     time.Duration
	LogLevel        slog.Level
}

// Path returns the config file location, honouring XDG_CONFIG_HOME.
func Path() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(home, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configHome, "jornada", "jornada.yml"), nil
}

// Load reads .env (if present), the config file (written with defaults on
// first run) and JORNADA_* environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("jornada")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Config{}, fmt.Errorf("error creating config directory: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			if err := v.WriteConfigAs(path); err != nil {
				return Config{}, fmt.Errorf("error creating config file: %w", err)
			}
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("data_dir", filepath.Join(home, ".jornada"))
	v.SetDefault("storage", StorageBuntDB)
	v.SetDefault("threshold_hours", 8.0)
	v.SetDefault("tick_interval", "1s")
	v.SetDefault("polling_interval", "1s")
	v.SetDefault("finish_after", "4h")
	v.SetDefault("log_level", "debug")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		DataDir:         v.GetString("data_dir"),
		Storage:         strings.ToLower(v.GetString("storage")),
		ThresholdHours:  v.GetFloat64("threshold_hours"),
		TickInterval:    v.GetDuration("tick_interval"),
		PollingInterval: v.GetDuration("polling_interval"),
		FinishAfter:     v.GetDuration("finish_after"),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return Config{}, fmt.Errorf("log_level: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageBuntDB, StorageSQLite:
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage)
	}
	if c.DataDir == "" {
		return errors.New("data_dir: must not be empty")
	}
	if c.ThresholdHours <= 0 {
		return fmt.Errorf("threshold_hours: must be positive, got %v", c.ThresholdHours)
	}
	for name, d := range map[string]time.Duration{
		"tick_interval":    c.TickInterval,
		"polling_interval": c.PollingInterval,
		"finish_after":     c.FinishAfter,
	} {
		if d <= 0 {
			return fmt.Errorf("%s: must be positive, got %s", name, d)
		}
	}
	return nil
}
