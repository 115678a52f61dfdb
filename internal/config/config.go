package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/carson-networks/finance-ledger/internal/currency"
)

type Config struct {
	DBPath            string
	Port              string
	ReportingCurrency string
	OperatorWorkers   int
	BusyTimeoutMs     int
	LogLevel          string
	StaticRates       string
}

func ProcessEnvironmentVariables(envFiles ...string) (*Config, error) {
	// A missing .env is fine; a named file that cannot be read is not.
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("godotenv.Load: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	// Defaults suit a local single-user install.
	env := Config{
		DBPath:            "./data/ledger.db",
		Port:              "9446",
		ReportingCurrency: "USD",
		OperatorWorkers:   1,
		BusyTimeoutMs:     5000,
		LogLevel:          "info",
	}

	envDBPath := os.Getenv("LEDGER_DB_PATH")
	envPort := os.Getenv("LEDGER_PORT")
	envReportingCurrency := os.Getenv("LEDGER_REPORTING_CURRENCY")
	envLogLevel := os.Getenv("LOG_LEVEL")

	if len(envDBPath) != 0 {
		env.DBPath = envDBPath
	}

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envReportingCurrency) != 0 {
		code, ok := currency.NormalizeCode(envReportingCurrency)
		if !ok {
			return nil, fmt.Errorf("invalid LEDGER_REPORTING_CURRENCY %q", envReportingCurrency)
		}
		env.ReportingCurrency = code
	}

	if len(envLogLevel) != 0 {
		env.LogLevel = envLogLevel
	}

	env.StaticRates = os.Getenv("LEDGER_STATIC_RATES")

	workers, err := intFromEnv("LEDGER_OPERATOR_WORKERS", env.OperatorWorkers)
	if err != nil {
		return nil, err
	}
	env.OperatorWorkers = workers

	busyTimeout, err := intFromEnv("LEDGER_BUSY_TIMEOUT_MS", env.BusyTimeoutMs)
	if err != nil {
		return nil, err
	}
	env.BusyTimeoutMs = busyTimeout

	return &env, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
