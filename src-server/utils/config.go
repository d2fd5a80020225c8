package utils

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	port         string
	databasePath string
	location     *time.Location

	eventsAPIURL      string
	discordWebhookURL string
	digestCron        string

	metricCollectionInterval time.Duration
	seedSampleData           bool
	logLevel                 slog.Level
}

// Defaults without reading the environment.
func DefaultConfig() *Config {
	return &Config{
		port:                     "8080",
		databasePath:             "./sqlite.db",
		location:                 time.Local,
		digestCron:               "0 8 * * *",
		metricCollectionInterval: 10 * time.Second,
		logLevel:                 slog.LevelDebug,
	}
}

func NewConfig() *Config {
	c := DefaultConfig()

	c.port = func() string {
		port := os.Getenv("PORT")
		if port == "" {
			port = c.port
		}
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			slog.Error("invalid PORT", "port", port, "error", err)
			os.Exit(1)
		}
		slog.Debug("env", "PORT", port)
		return port
	}()

	c.databasePath = func() string {
		databasePath := os.Getenv("DATABASE_PATH")
		if databasePath == "" {
			databasePath = c.databasePath
		}
		slog.Debug("env", "DATABASE_PATH", databasePath)
		return databasePath
	}()

	c.location = func() *time.Location {
		timezoneStr := os.Getenv("TIMEZONE")
		var loc *time.Location
		var err error
		switch timezoneStr {
		case "":
			slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
			loc = time.Local
		case "UTC":
			loc = time.UTC
		default:
			loc, err = time.LoadLocation(timezoneStr)
			if err != nil {
				slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
				os.Exit(1)
			}
		}
		slog.Debug("env", "TIMEZONE", timezoneStr)
		return loc
	}()

	c.eventsAPIURL = func() string {
		eventsAPIURL := strings.TrimSuffix(os.Getenv("EVENTS_API_URL"), "/")
		if eventsAPIURL == "" {
			return ""
		}
		if _, err := url.ParseRequestURI(eventsAPIURL); err != nil {
			slog.Error("invalid EVENTS_API_URL", "url", eventsAPIURL, "error", err)
			os.Exit(1)
		}
		slog.Debug("env", "EVENTS_API_URL", eventsAPIURL)
		return eventsAPIURL
	}()

	c.discordWebhookURL = func() string {
		discordWebhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
		if discordWebhookURL == "" {
			slog.Info("DISCORD_WEBHOOK_URL is not set, notifications are disabled")
			return ""
		}
		slog.Debug("env", "DISCORD_WEBHOOK_URL", discordWebhookURL[0:min(len(discordWebhookURL), 40)]+"...")
		return discordWebhookURL
	}()

	c.digestCron = func() string {
		digestCron := os.Getenv("DIGEST_CRON")
		if digestCron == "" {
			digestCron = c.digestCron
		}
		if _, err := cron.ParseStandard(digestCron); err != nil {
			slog.Error("invalid DIGEST_CRON", "cron", digestCron, "error", err)
			os.Exit(1)
		}
		slog.Debug("env", "DIGEST_CRON", digestCron)
		return digestCron
	}()

	c.metricCollectionInterval = func() time.Duration {
		interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
		if interval == "" {
			return c.metricCollectionInterval
		}
		duration, err := time.ParseDuration(interval)
		if err != nil || duration <= 0 {
			slog.Error("invalid METRIC_COLLECTION_INTERVAL", "interval", interval, "error", err)
			os.Exit(1)
		}
		slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
		return duration
	}()

	c.seedSampleData = func() bool {
		seed := os.Getenv("SEED_SAMPLE_DATA")
		if seed == "" {
			return false
		}
		parsed, err := strconv.ParseBool(seed)
		if err != nil {
			slog.Error("invalid SEED_SAMPLE_DATA", "value", seed, "error", err)
			os.Exit(1)
		}
		return parsed
	}()

	c.logLevel = ParseLogLevel(os.Getenv("LOG_LEVEL"))

	return c
}

// Unknown or empty levels fall back to debug.
func ParseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelDebug
	}
	return level
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get EVENTS_API_URL env, empty when the local store is used
func (c *Config) GetEventsAPIURL() string {
	return c.eventsAPIURL
}

// Get DISCORD_WEBHOOK_URL env
func (c *Config) GetDiscordWebhookURL() string {
	return c.discordWebhookURL
}

// Get DIGEST_CRON env
func (c *Config) GetDigestCron() string {
	return c.digestCron
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get SEED_SAMPLE_DATA env
func (c *Config) GetSeedSampleData() bool {
	return c.seedSampleData
}

// Get LOG_LEVEL env
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Used by tests and by callers that build a Config by hand.
func (c *Config) WithLocation(loc *time.Location) *Config {
	c.location = loc
	return c
}

func (c *Config) WithDatabasePath(path string) *Config {
	c.databasePath = path
	return c
}
