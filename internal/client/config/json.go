package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cargodesk/internal/flagx"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Durations accept
// strings like "30s" or integer nanoseconds. Absent keys leave the value
// from earlier sources in place.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	DatabasePath        string          `json:"database_path"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	LogLevel            string          `json:"log_level"`
	LogBackend          string          `json:"log_backend"`
	LoginPath           string          `json:"login_path"`
	SuccessPath         string          `json:"success_path"`
	SearchDebounce      *timex.Duration `json:"search_debounce"`
	SingleFlightRefresh *bool           `json:"single_flight_refresh"`
	FallbackMessage     string          `json:"fallback_message"`
	SuppressedErrorKeys []string        `json:"suppressed_error_keys"`
}

// parseJson overlays Config with the JSON file named by -c/-config.
// Without that flag nothing is loaded. Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFilePath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogBackend, jc.LogBackend)
	set(&cfg.LoginPath, jc.LoginPath)
	set(&cfg.SuccessPath, jc.SuccessPath)
	set(&cfg.FallbackMessage, jc.FallbackMessage)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.SingleFlightRefresh != nil {
		cfg.SingleFlightRefresh = *jc.SingleFlightRefresh
	}
	if jc.SuppressedErrorKeys != nil {
		cfg.SuppressedErrorKeys = jc.SuppressedErrorKeys
	}
}
