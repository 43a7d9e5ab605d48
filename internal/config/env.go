package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv reads .env from the working directory if present.
func loadDotEnv() { _ = godotenv.Load() }

// applyEnvOverrides overwrites fields whose BONDPRICER_* variable is set and
// parses. Malformed values are ignored and left to Validate.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.ValuationDate, "BONDPRICER_VALUATION_DATE")

	setInt(&cfg.Liquidity.Days, "BONDPRICER_LIQUIDITY_DAYS")
	setFloat64(&cfg.Liquidity.Spread, "BONDPRICER_LIQUIDITY_SPREAD")

	setStr(&cfg.Calibration.Method, "BONDPRICER_CALIBRATION_METHOD")
	setInt(&cfg.Calibration.MaxIterations, "BONDPRICER_CALIBRATION_MAX_ITERATIONS")
	setInt(&cfg.Calibration.MaxEvaluations, "BONDPRICER_CALIBRATION_MAX_EVALUATIONS")
	setFloat64(&cfg.Calibration.Tolerance, "BONDPRICER_CALIBRATION_TOLERANCE")
	setDuration(&cfg.Calibration.MaxRuntime, "BONDPRICER_CALIBRATION_MAX_RUNTIME")
	setBool(&cfg.Calibration.Fallback, "BONDPRICER_CALIBRATION_FALLBACK")

	setInt(&cfg.Server.Port, "BONDPRICER_SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "BONDPRICER_SERVER_CORS_ORIGINS")
	setDuration(&cfg.Server.ResultTTL, "BONDPRICER_SERVER_RESULT_TTL")

	setStr(&cfg.Log.Level, "BONDPRICER_LOG_LEVEL")
	setStr(&cfg.Log.Format, "BONDPRICER_LOG_FORMAT")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		*dst = cleaned
	}
}
