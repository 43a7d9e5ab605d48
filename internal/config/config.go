package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/data"
	"bond-pricer/internal/liquidity"
	"bond-pricer/internal/pricer"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// ValuationDate is YYYY-MM-DD; empty means today.
	ValuationDate string            `yaml:"valuation_date"`
	Liquidity     LiquidityConfig   `yaml:"liquidity"`
	Calibration   CalibrationConfig `yaml:"calibration"`
	Report        ReportConfig      `yaml:"report"`
	Server        ServerConfig      `yaml:"server"`
	Log           LogConfig         `yaml:"log"`
}

type LiquidityConfig struct {
	Days   int     `yaml:"days"`
	Spread float64 `yaml:"spread"`
}

type CalibrationConfig struct {
	Method             string        `yaml:"method"`
	MaxIterations      int           `yaml:"max_iterations"`
	MaxEvaluations     int           `yaml:"max_evaluations"`
	Tolerance          float64       `yaml:"tolerance"`
	ConvergeIterations int           `yaml:"converge_iterations"`
	MaxRuntime         time.Duration `yaml:"max_runtime"`
	SimplexSize        float64       `yaml:"simplex_size"`
	Fallback           bool          `yaml:"fallback"`
}

type ReportConfig struct {
	Maturities []float64 `yaml:"maturities"`
}

type ServerConfig struct {
	Port        int           `yaml:"port"`
	CORSOrigins []string      `yaml:"cors_origins"`
	ResultTTL   time.Duration `yaml:"result_ttl"`
	// CompareLimit bounds concurrent scenario runs per request.
	CompareLimit int `yaml:"compare_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	s := calibrate.DefaultSettings()
	return Config{
		Liquidity: LiquidityConfig{
			Days:   liquidity.DefaultThresholdDays,
			Spread: pricer.DefaultLiquiditySpread,
		},
		Calibration: CalibrationConfig{
			Method:             s.Method,
			MaxIterations:      s.MaxIterations,
			MaxEvaluations:     s.MaxEvaluations,
			Tolerance:          s.Tolerance,
			ConvergeIterations: s.ConvergeIterations,
			MaxRuntime:         s.MaxRuntime,
			SimplexSize:        s.SimplexSize,
			Fallback:           s.Fallback,
		},
		Report: ReportConfig{Maturities: append([]float64(nil), curve.DefaultReportMaturities...)},
		Server: ServerConfig{
			Port:         8080,
			CORSOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ResultTTL:    data.DefaultResultTTL,
			CompareLimit: 4,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (empty means defaults only), applies BONDPRICER_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked merges file and environment over Defaults, but does not
// validate. Useful for printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	loadDotEnv()

	applyEnvOverrides(&c)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.valuationDate(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Server.ResultTTL < 0 {
		return errors.New("server.result_ttl must be >= 0")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	if err := c.ToPricerConfig().Validate(); err != nil {
		return fmt.Errorf("pricing config invalid: %w", err)
	}
	return nil
}

// ToPricerConfig maps the file sections onto an engine run config.
// An unparsable valuation date maps to zero (today); Validate rejects it first.
func (c *Config) ToPricerConfig() pricer.Config {
	valDate, _ := c.valuationDate()
	return pricer.Config{
		ValuationDate:    valDate,
		LiquidityDays:    c.Liquidity.Days,
		LiquiditySpread:  c.Liquidity.Spread,
		ReportMaturities: append([]float64(nil), c.Report.Maturities...),
		Calibration: calibrate.Settings{
			Method:             c.Calibration.Method,
			Tolerance:          c.Calibration.Tolerance,
			ConvergeIterations: c.Calibration.ConvergeIterations,
			MaxIterations:      c.Calibration.MaxIterations,
			MaxEvaluations:     c.Calibration.MaxEvaluations,
			MaxRuntime:         c.Calibration.MaxRuntime,
			SimplexSize:        c.Calibration.SimplexSize,
			Fallback:           c.Calibration.Fallback,
		},
	}
}

func (c *Config) valuationDate() (time.Time, error) {
	if strings.TrimSpace(c.ValuationDate) == "" {
		return time.Time{}, nil
	}
	t, err := data.ParseDate(c.ValuationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("valuation_date %q %w", c.ValuationDate, err)
	}
	return t, nil
}

// Logger builds a slog logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q is not a level", s)
	}
	return level, nil
}
