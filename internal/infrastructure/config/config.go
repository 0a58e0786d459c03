package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Log      Log
	API      API
	Workbook Workbook
	Server   Server
	Journal  Journal
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"INFO"`
}

type API struct {
	BaseURL      string        `env:"QUOTE_API_BASE_URL" env-default:"https://economia.awesomeapi.com.br"`
	BaseCurrency string        `env:"QUOTE_BASE_CURRENCY" env-default:"BRL"`
	CommonPairs  string        `env:"QUOTE_COMMON_PAIRS" env-default:"USD-BRL,EUR-BRL,BTC-BRL,GBP-BRL,JPY-BRL"`
	Timeout      time.Duration `env:"QUOTE_API_TIMEOUT" env-default:"30s"`
	CacheTTL     time.Duration `env:"QUOTE_CACHE_TTL" env-default:"10m"`
}

type Workbook struct {
	OutputSuffix string `env:"WORKBOOK_OUTPUT_SUFFIX" env-default:"_updated"`
	// Timezone names the zone date columns are derived in; "Local" uses the host zone
	Timezone string `env:"WORKBOOK_TIMEZONE" env-default:"Local"`
}

type Server struct {
	Addr        string        `env:"HTTP_ADDR" env-default:"127.0.0.1:8080"`
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Journal struct {
	Enabled bool   `env:"JOURNAL_ENABLED" env-default:"true"`
	Dir     string `env:"JOURNAL_DIR" env-default:"./data"`
}

// NewConfig loads an optional .env file and then reads the environment
func NewConfig() (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Pairs splits the configured common pairs, dropping blanks
func (c *Config) Pairs() []string {
	var pairs []string
	for _, p := range strings.Split(c.API.CommonPairs, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// Location resolves the workbook timezone
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Workbook.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKBOOK_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}
