package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // chapter illustration assets

	AuthSecret string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Telemetry endpoint; empty disables reporting.
	TelemetryBaseURL string

	// Chapter chatbot (OpenAI-compatible endpoint).
	ChatAPIKey  string
	ChatBaseURL string
	ChatModel   string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.neetsprint.in"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		TelemetryBaseURL:   os.Getenv("TELEMETRY_BASE_URL"),
		ChatAPIKey:         os.Getenv("CHAT_API_KEY"),
		ChatBaseURL:        os.Getenv("CHAT_BASE_URL"),
		ChatModel:          envOr("CHAT_MODEL", "gpt-4o-mini"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
