package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServiceName string      `yaml:"service_name"`
	LogLevel    string      `yaml:"log_level"`
	Book        *BookConfig `yaml:"book"`
}

// BookConfig describes the single instrument the engine trades.
type BookConfig struct {
	Pair     string          `yaml:"pair"`
	TickSize decimal.Decimal `yaml:"tick_size"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		sugar.Errorf("Invalid config: %v", err)
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

// Validate checks the fields the engine cannot start without.
func (c *AppConfig) Validate() error {
	if c.Book == nil {
		return errors.New("book config is required")
	}
	if strings.TrimSpace(c.Book.Pair) == "" {
		return errors.New("book.pair is required")
	}
	if !c.Book.TickSize.IsPositive() {
		return fmt.Errorf("book.tick_size must be positive, got %s", c.Book.TickSize)
	}
	return nil
}
