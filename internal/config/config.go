package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional YAML file with the same keys.
const ConfigFileEnv = "HABIT_PLANNER_CONFIG"

// ErrMissingToken is returned when the bot is started without a token.
var ErrMissingToken = errors.New("TELEGRAM_TOKEN is required")

// Config keeps runtime settings for the bot and the CLI.
type Config struct {
	TelegramToken   string        `mapstructure:"telegram_token"`
	DatabaseURL     string        `mapstructure:"database_url"`
	ReminderTime    string        `mapstructure:"reminder_time"`
	Timezone        string        `mapstructure:"timezone"`
	SupabaseURL     string        `mapstructure:"supabase_url"`
	SupabaseAnonKey string        `mapstructure:"supabase_anon_key"`
	AuthTimeout     time.Duration `mapstructure:"auth_timeout"`
	Notifications   bool          `mapstructure:"notifications"`
}

func Default() Config {
	return Config{
		DatabaseURL:   "habit_planner.db",
		ReminderTime:  "08:00",
		AuthTimeout:   10 * time.Second,
		Notifications: true,
	}
}

// Load reads .env (if present), the optional YAML file and the environment,
// later sources overriding earlier ones.
func Load() (Config, error) {
	cfg := Default()
	_ = godotenv.Load() // ok if missing

	v := viper.New()
	v.SetDefault("telegram_token", "")
	v.SetDefault("database_url", cfg.DatabaseURL)
	v.SetDefault("reminder_time", cfg.ReminderTime)
	v.SetDefault("timezone", "")
	v.SetDefault("supabase_url", "")
	v.SetDefault("supabase_anon_key", "")
	v.SetDefault("auth_timeout", cfg.AuthTimeout)
	v.SetDefault("notifications", cfg.Notifications)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.ReminderTime = strings.TrimSpace(cfg.ReminderTime)
	cfg.SupabaseURL = strings.TrimSpace(cfg.SupabaseURL)
	cfg.SupabaseAnonKey = strings.TrimSpace(cfg.SupabaseAnonKey)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = Default().DatabaseURL
	}
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = Default().AuthTimeout
	}
	if err := validClock(cfg.ReminderTime); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RequireTelegram fails when no bot token is configured.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}

// Location resolves Timezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

func validClock(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("REMINDER_TIME %q must be HH:MM", value)
	}
	return nil
}
