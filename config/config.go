package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	Timezone    string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`
	EditSessionTTL       time.Duration `mapstructure:"EDIT_SESSION_TTL"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	// Availability editing policies.
	RegeneratePolicy string `mapstructure:"REGENERATE_POLICY"`
	OverlapPolicy    string `mapstructure:"OVERLAP_POLICY"`

	// Mail and reminders.
	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         int           `mapstructure:"SMTP_PORT"`
	EmailUser        string        `mapstructure:"EMAIL_USER"`
	EmailPass        string        `mapstructure:"EMAIL_PASS"`
	RemindersEnabled bool          `mapstructure:"REMINDERS_ENABLED"`
	ReminderLead     time.Duration `mapstructure:"REMINDER_LEAD"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "solid_secret_key")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EDIT_SESSION_TTL", "30m")
	v.SetDefault("AVAILABILITY_CACHE_TTL", "10m")
	v.SetDefault("REGENERATE_POLICY", "regenerate")
	v.SetDefault("OVERLAP_POLICY", "reject")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_PASS", "")
	v.SetDefault("REMINDERS_ENABLED", false)
	v.SetDefault("REMINDER_LEAD", "1h")
}

// Load reads .env (if present), an optional config.yaml and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Env = strings.ToLower(cfg.Env)
	return cfg, nil
}

// LoadConfig loads into AppConfig and exits on failure.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}

// Location returns the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
