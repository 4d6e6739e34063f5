package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBPath        string
	LibraryPath   string
	AssetsPath    string
	LogLevel      slog.Level
	LogFormat     string
	AdminPassword string
	AdminCookie   string
	Watch         bool
	DeleteFiles   bool
}

// Load reads the configuration from the environment, after merging in a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getString("GALLERY_ADDR", ":8080"),
		DBPath:        getString("GALLERY_DB_PATH", "data/gallery.db"),
		LibraryPath:   getString("GALLERY_LIBRARY_PATH", "data/library"),
		AssetsPath:    getString("GALLERY_ASSETS_PATH", "web/static/samples"),
		LogLevel:      getLogLevel("GALLERY_LOG_LEVEL", slog.LevelInfo),
		LogFormat:     getString("GALLERY_LOG_FORMAT", "text"),
		AdminPassword: strings.TrimSpace(os.Getenv("GALLERY_ADMIN_PASSWORD")),
		AdminCookie:   getString("GALLERY_ADMIN_COOKIE", "gallery_admin"),
		Watch:         getBool("GALLERY_WATCH", true),
		DeleteFiles:   getBool("GALLERY_DELETE_FILES", true),
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("GALLERY_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// AuthEnabled reports whether mutating routes require the admin cookie.
func (c *Config) AuthEnabled() bool {
	return c.AdminPassword != ""
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getLogLevel(key string, fallback slog.Level) slog.Level {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
