package fxlob

import (
	"os"
	"strconv"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"gopkg.in/yaml.v2"
)

// Config drives one replay run. Only a single currency is simulated
// per run; the label is stored with each persisted day.
type Config struct {
	OrdersPath   string `yaml:"orders_path"`
	DatabaseURL  string `yaml:"database_url"`
	Currency     string `yaml:"currency"`
	TTLDays      int    `yaml:"ttl_days"`
	MatchThrough bool   `yaml:"match_through"`
}

// LoadConfig reads the yaml config file, then applies environment
// overrides: ORDERS_PATH, DATABASE_URL, CURRENCY, BOOK_TTL_DAYS and
// MATCH_THROUGH. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Currency: "USD"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config", j.KV("path", path))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse config", j.KV("path", path))
		}
	}

	if v := os.Getenv("ORDERS_PATH"); v != "" {
		cfg.OrdersPath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("BOOK_TTL_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "parse BOOK_TTL_DAYS", j.KV("value", v))
		}
		cfg.TTLDays = n
	}
	if v := os.Getenv("MATCH_THROUGH"); v != "" {
		cfg.MatchThrough = v == "1" || v == "true"
	}

	return cfg, nil
}
