package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// DataFile is the occurrence CSV loaded once at startup.
	DataFile string

	// MapboxAccessToken authorizes base map imagery. Required; the token is
	// configuration, never source.
	MapboxAccessToken string

	// MapboxStyle is the base map style, e.g. "mapbox/streets-v12".
	MapboxStyle string

	// ChatResolveDelay is how long a chat answer stays pending.
	ChatResolveDelay time.Duration

	// ChatTickInterval is the resolution scheduler's tick period.
	ChatTickInterval time.Duration

	// HTTPTimeout bounds outbound Mapbox requests.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DataFile = getenvDefault("DATA_FILE", "data/data.csv")
	cfg.MapboxStyle = getenvDefault("MAPBOX_STYLE", "mapbox/streets-v12")

	cfg.MapboxAccessToken = os.Getenv("MAPBOX_ACCESS_TOKEN")
	if cfg.MapboxAccessToken == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN must be set")
	}

	// Pending chat answers resolve after this delay: default 2 seconds.
	delayStr := getenvDefault("CHAT_RESOLVE_DELAY", "2s")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_RESOLVE_DELAY: %w", err)
	}
	cfg.ChatResolveDelay = delay

	tickStr := getenvDefault("CHAT_TICK_INTERVAL", "2s")
	tick, err := time.ParseDuration(tickStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_TICK_INTERVAL: %w", err)
	}
	cfg.ChatTickInterval = tick

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
