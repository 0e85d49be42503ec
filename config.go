package ensemble

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/ensemble/feature"
)

// Algorithm names accepted in Config.
const (
	AlgorithmThreshold = "threshold"
	AlgorithmKMeans    = "kmeans"
	AlgorithmDPMeans   = "dpmeans"
)

// Config is the file form of a clustering setup.
//
//	algorithm: dpmeans
//	threshold: 0.35
//	max_iterations: 50
//	seed: 7
//	log_level: info
//
// Zero or absent fields keep the option defaults.
type Config struct {
	Algorithm               string   `yaml:"algorithm"`
	K                       int      `yaml:"k,omitempty"`
	Threshold               *float64 `yaml:"threshold,omitempty"`
	MaxIterations           int      `yaml:"max_iterations,omitempty"`
	ConvergenceTest         *float64 `yaml:"convergence_test,omitempty"`
	FirstCandidate          bool     `yaml:"first_candidate,omitempty"`
	OnlineUpdate            *bool    `yaml:"online_update,omitempty"`
	PenalizeMissingFeatures *bool    `yaml:"penalize_missing_features,omitempty"`
	BlockSize               int      `yaml:"block_size,omitempty"`
	Seed                    *int64   `yaml:"seed,omitempty"`
	LogLevel                string   `yaml:"log_level,omitempty"`
}

// LoadConfig loads a clustering configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config YAML: %w", err)
	}
	return data, nil
}

func (c *Config) algorithm() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Algorithm)), "-", "")
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs []error

	switch c.algorithm() {
	case AlgorithmKMeans:
		if c.K <= 0 {
			errs = append(errs, fmt.Errorf("%w: k=%d", ErrInvalidK, c.K))
		}
	case AlgorithmThreshold, AlgorithmDPMeans:
		if c.Threshold == nil {
			errs = append(errs, fmt.Errorf("%w: threshold is required for %s", ErrInvalidThreshold, c.algorithm()))
		} else if !validThreshold(*c.Threshold) {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidThreshold, *c.Threshold))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm))
	}

	if c.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxIterations, c.MaxIterations))
	}
	if c.ConvergenceTest != nil && !validThreshold(*c.ConvergenceTest) {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConvergenceTest, *c.ConvergenceTest))
	}
	if c.BlockSize < 0 {
		errs = append(errs, fmt.Errorf("block_size must not be negative: %d", c.BlockSize))
	}
	if c.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Options converts the configuration into strategy options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.MaxIterations > 0 {
		opts = append(opts, WithMaxIterations(c.MaxIterations))
	}
	if c.ConvergenceTest != nil {
		opts = append(opts, WithConvergenceTest(*c.ConvergenceTest))
	}
	if c.FirstCandidate {
		opts = append(opts, WithFirstCandidate(true))
	}
	if c.OnlineUpdate != nil {
		opts = append(opts, WithOnlineUpdate(*c.OnlineUpdate))
	}
	if c.PenalizeMissingFeatures != nil {
		opts = append(opts, WithPenalizeMissingFeatures(*c.PenalizeMissingFeatures))
	}
	if c.BlockSize > 0 {
		opts = append(opts, WithBlockSize(c.BlockSize))
	}
	if c.Seed != nil {
		opts = append(opts, WithSeed(*c.Seed))
	}
	if c.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.LogLevel)); err == nil {
			opts = append(opts, WithLogLevel(lvl))
		}
	}
	return opts
}

// New builds the strategy named by cfg. Options in optFns are applied after
// the ones derived from cfg.
func New(reg *feature.Registry, cfg *Config, optFns ...Option) (Clusterer, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := append(cfg.Options(), optFns...)

	var (
		c   Clusterer
		err error
	)
	switch cfg.algorithm() {
	case AlgorithmThreshold:
		c, err = NewThreshold(reg, *cfg.Threshold, opts...)
	case AlgorithmKMeans:
		c, err = NewKMeans(reg, cfg.K, opts...)
	default:
		c, err = NewDPMeans(reg, *cfg.Threshold, opts...)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
