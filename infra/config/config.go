package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/usecase/reconciliation/matcher"
	"github.com/shopspring/decimal"
)

type AppConfig struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string
}

type DBConfig struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDriver   string
	DBSSLMode  string
}

type WorkerConfig struct {
	Workers  int
	Interval time.Duration
}

type ReconciliationConfig struct {
	Matcher                matcher.Config
	ChunkSize              int
	ValidateRunningBalance bool
}

type Config struct {
	App            AppConfig
	DB             DBConfig
	Worker         WorkerConfig
	Reconciliation ReconciliationConfig
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config
	var err error

	cfg.App = AppConfig{
		AppName:  getEnv("APP_NAME", "bank-reconciliation"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", getEnv("PORT", "8080")),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	cfg.DB = DBConfig{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "reconciliation"),
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	if cfg.Worker.Workers, err = getInt("WORKER_COUNT", consts.DefaultWorkerNumber); err != nil {
		return cfg, err
	}
	interval, err := getInt("WORKER_INTERVAL_SEC", consts.DefaultIntervalInSec)
	if err != nil {
		return cfg, err
	}
	cfg.Worker.Interval = time.Duration(interval) * time.Second

	if cfg.Reconciliation.ChunkSize, err = getInt("AUTO_MATCH_CHUNK_SIZE", consts.DefaultChunkSize); err != nil {
		return cfg, err
	}
	if cfg.Reconciliation.ValidateRunningBalance, err = getBool("VALIDATE_RUNNING_BALANCE", false); err != nil {
		return cfg, err
	}
	if cfg.Reconciliation.Matcher, err = matcherFromEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func matcherFromEnv() (matcher.Config, error) {
	m := matcher.DefaultConfig()
	var err error

	if m.AmountTolerancePct, err = getDecimal("MATCH_AMOUNT_TOLERANCE_PCT", m.AmountTolerancePct); err != nil {
		return m, err
	}
	if m.AmountToleranceAbs, err = getDecimal("MATCH_AMOUNT_TOLERANCE_ABS", m.AmountToleranceAbs); err != nil {
		return m, err
	}
	if m.DateWindowDays, err = getInt("MATCH_DATE_WINDOW_DAYS", m.DateWindowDays); err != nil {
		return m, err
	}
	if m.AmountWeight, err = getFloat("MATCH_AMOUNT_WEIGHT", m.AmountWeight); err != nil {
		return m, err
	}
	if m.DateWeight, err = getFloat("MATCH_DATE_WEIGHT", m.DateWeight); err != nil {
		return m, err
	}
	if m.ReferenceBonus, err = getFloat("MATCH_REFERENCE_BONUS", m.ReferenceBonus); err != nil {
		return m, err
	}
	if m.HighThreshold, err = getFloat("MATCH_HIGH_THRESHOLD", m.HighThreshold); err != nil {
		return m, err
	}
	if m.MediumThreshold, err = getFloat("MATCH_MEDIUM_THRESHOLD", m.MediumThreshold); err != nil {
		return m, err
	}

	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("invalid matcher config: %w", err)
	}
	return m, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func getDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal: %w", key, err)
	}
	return v, nil
}

// ApplyLogLevel sets the gommon level from LOG_LEVEL.
func (c AppConfig) ApplyLogLevel() {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		log.SetLevel(log.DEBUG)
	case "WARN":
		log.SetLevel(log.WARN)
	case "ERROR":
		log.SetLevel(log.ERROR)
	case "OFF":
		log.SetLevel(log.OFF)
	default:
		log.SetLevel(log.INFO)
	}
}
