package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "CARGODESK_"

// parseEnv overlays Config with CARGODESK_* environment variables. A dotenv
// file named by -e/-env is loaded first and must exist; otherwise ./.env is
// loaded when present. Variables already set in the environment win over
// the file. Malformed values panic.
func parseEnv(cfg *Config, args []string) {
	if path := flagx.EnvFilePath(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
			}
			*dst = d
		}
	}

	str("API_BASE_URL", &cfg.APIBaseURL)
	str("DB_PATH", &cfg.DatabasePath)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOGIN_PATH", &cfg.LoginPath)
	str("SUCCESS_PATH", &cfg.SuccessPath)
	dur("SEARCH_DEBOUNCE", &cfg.SearchDebounce)
	str("FALLBACK_MESSAGE", &cfg.FallbackMessage)

	if v, ok := os.LookupEnv(envPrefix + "SINGLE_FLIGHT_REFRESH"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sSINGLE_FLIGHT_REFRESH: %w", envPrefix, err))
		}
		cfg.SingleFlightRefresh = b
	}

	if v, ok := os.LookupEnv(envPrefix + "SUPPRESSED_ERROR_KEYS"); ok {
		cfg.SuppressedErrorKeys = splitList(v)
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
