package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/services"
)

// Config holds runtime settings for the cargodesk client.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration

	LogLevel   string
	LogBackend string

	LoginPath   string
	SuccessPath string

	SearchDebounce      time.Duration
	SingleFlightRefresh bool

	FallbackMessage     string
	SuppressedErrorKeys []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "cargodesk.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LoginPath = services.DefaultLoginPath
	c.SuccessPath = services.DefaultSuccessPath
	c.SearchDebounce = 300 * time.Millisecond
	c.SingleFlightRefresh = false
	c.FallbackMessage = services.DefaultFallbackMessage
	c.SuppressedErrorKeys = services.DefaultSuppressedErrorKeys()
}

// LoadConfig applies defaults, then the environment (and .env file), then
// the JSON file, then flags. Later sources win.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, args)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
