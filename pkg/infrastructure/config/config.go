package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes all environment overrides
const EnvPrefix = "MEALPLAN_"

// Config holds the settings of the mealplan tool
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Planner     PlannerConfig     `yaml:"planner"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
}

// PlannerConfig holds the distributor settings
type PlannerConfig struct {
	WeightEqualProducts int   `yaml:"weight_equal_products"`
	WeightPescatarian   int   `yaml:"weight_pescatarian"`
	WeightVegetarian    int   `yaml:"weight_vegetarian"`
	RelaxComposition    bool  `yaml:"relax_composition"`
	MaxNumIterations    int   `yaml:"max_num_iterations"` // 0 disables swaps
	CurrencyPlaces      int32 `yaml:"currency_places"`
}

// EligibilityConfig holds the candidate selection settings
type EligibilityConfig struct {
	GracePeriodDays int `yaml:"grace_period_days"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Planner: PlannerConfig{
			WeightEqualProducts: 10,
			WeightPescatarian:   5,
			WeightVegetarian:    1,
			RelaxComposition:    true,
			MaxNumIterations:    20,
			CurrencyPlaces:      2,
		},
		Eligibility: EligibilityConfig{
			GracePeriodDays: 14,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies MEALPLAN_*
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment files into the process environment. Missing
// files are skipped and variables already set are not overridden.
func LoadDotEnv(filenames ...string) error {
	for _, filename := range filenames {
		if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", filename, err)
		}
	}
	return nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"WEIGHT_EQUAL_PRODUCTS": &c.Planner.WeightEqualProducts,
		"WEIGHT_PESCATARIAN":    &c.Planner.WeightPescatarian,
		"WEIGHT_VEGETARIAN":     &c.Planner.WeightVegetarian,
		"MAX_NUM_ITERATIONS":    &c.Planner.MaxNumIterations,
		"GRACE_PERIOD_DAYS":     &c.Eligibility.GracePeriodDays,
	}
	for name, target := range ints {
		value, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %s", EnvPrefix, name, value)
		}
		*target = parsed
	}

	if value, ok := os.LookupEnv(EnvPrefix + "CURRENCY_PLACES"); ok {
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %sCURRENCY_PLACES: %s", EnvPrefix, value)
		}
		c.Planner.CurrencyPlaces = int32(parsed)
	}

	if value, ok := os.LookupEnv(EnvPrefix + "RELAX_COMPOSITION"); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %sRELAX_COMPOSITION: %s", EnvPrefix, value)
		}
		c.Planner.RelaxComposition = parsed
	}

	if value, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = strings.TrimSpace(value)
	}
	return nil
}

// Validate checks the configuration for values the planner cannot use
func (c *Config) Validate() error {
	if c.Planner.WeightEqualProducts < 0 || c.Planner.WeightPescatarian < 0 || c.Planner.WeightVegetarian < 0 {
		return fmt.Errorf("planner weights cannot be negative")
	}
	if c.Planner.MaxNumIterations < 0 {
		return fmt.Errorf("max_num_iterations cannot be negative, got %d", c.Planner.MaxNumIterations)
	}
	if c.Planner.CurrencyPlaces < 0 {
		return fmt.Errorf("currency_places cannot be negative, got %d", c.Planner.CurrencyPlaces)
	}
	if c.Eligibility.GracePeriodDays < 0 {
		return fmt.Errorf("grace_period_days cannot be negative, got %d", c.Eligibility.GracePeriodDays)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured zerolog level
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
