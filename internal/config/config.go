package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		API
		Gateway
		Global
		Database
		UI
		Refresh
	}

	// HTTP is where the book-tracking UI listens.
	HTTP struct {
		Port int32
		Host string
	}
	// API is where the REST backend listens when started with the "api" command.
	API struct {
		Port              int32
		Host              string
		CORSAllowedOrigin string
	}
	// Gateway describes how the UI reaches the REST backend.
	Gateway struct {
		BaseURL string
		Timeout time.Duration // 0 leaves the transport default in place
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		CSRFSecret    string // Auto-generated if empty
		SecureCookies bool   // Set to true when served over HTTPS
	}
	// Refresh reloads the UI's data from the backend on a cron schedule.
	Refresh struct {
		Schedule string // Empty disables it
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("api_port", 8080)
	v.SetDefault("api_host", "0.0.0.0")
	v.SetDefault("cors_allowed_origin", "http://localhost:8190")
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("api_timeout", "0s")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("refresh_schedule", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		API: API{
			Port:              v.GetInt32("API_PORT"),
			Host:              v.GetString("API_HOST"),
			CORSAllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Gateway: Gateway{
			BaseURL: v.GetString("API_BASE_URL"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			CSRFSecret:    v.GetString("CSRF_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Refresh: Refresh{
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
	}
}
