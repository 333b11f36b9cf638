package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	ServerPort string

	DBDriver      string
	DBDSN         string
	SessionSecret string

	MediaRoot     string
	MediaURL      string
	TemplatesGlob string // пусто — шаблоны из бинарника

	RedisURL          string
	ContactRateLimit  int
	ContactRateWindow time.Duration

	ActivityRetentionDays     int
	ActivityRetentionSchedule string

	CORSAllowOrigins []string
	LogLevel         string

	AdminUsername string
	AdminPassword string
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("CONTACT_RATE_LIMIT", 5)
	v.SetDefault("CONTACT_RATE_WINDOW", time.Hour)
	v.SetDefault("ACTIVITY_RETENTION_DAYS", 0)
	v.SetDefault("ACTIVITY_RETENTION_SCHEDULE", "@daily")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Env:                       v.GetString("APP_ENV"),
		ServerPort:                v.GetString("SERVER_PORT"),
		DBDriver:                  strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                     v.GetString("DB_DSN"),
		SessionSecret:             v.GetString("SESSION_SECRET"),
		MediaRoot:                 v.GetString("MEDIA_ROOT"),
		MediaURL:                  v.GetString("MEDIA_URL"),
		TemplatesGlob:             v.GetString("TEMPLATES_GLOB"),
		RedisURL:                  v.GetString("REDIS_URL"),
		ContactRateLimit:          v.GetInt("CONTACT_RATE_LIMIT"),
		ContactRateWindow:         v.GetDuration("CONTACT_RATE_WINDOW"),
		ActivityRetentionDays:     v.GetInt("ACTIVITY_RETENTION_DAYS"),
		ActivityRetentionSchedule: v.GetString("ACTIVITY_RETENTION_SCHEDULE"),
		CORSAllowOrigins:          splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		AdminUsername:             v.GetString("ADMIN_USERNAME"),
		AdminPassword:             v.GetString("ADMIN_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if cfg.ContactRateWindow <= 0 {
		cfg.ContactRateWindow = time.Hour
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
