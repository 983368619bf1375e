package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	SourceStdin = "stdin"
	SourceKafka = "kafka"

	defaultStatsWindowSeconds = 300
	defaultUpdateFrequencyMs  = 1000
)

var defaultQuantiles = []float64{50, 90, 99}

type OSTreeConfig struct {
	Source             string       `yaml:"source"`
	KafkaConfig        *KafkaConfig `yaml:"kafka"`
	Topic              string       `yaml:"topic"`
	StatsWindowSeconds int          `yaml:"statsWindowSeconds"`
	MaxSamples         int          `yaml:"maxSamples"`
	Quantiles          []float64    `yaml:"quantiles"`
	UpdateFrequencyMs  int          `yaml:"updateFrequencyMs"`
}

type KafkaConfig struct {
	SeedBrokers []string `yaml:"seedBrokers"`
	GroupID     string   `yaml:"groupID"`
}

// Load reads a YAML config file. A missing file yields the default config.
func Load(path string) (*OSTreeConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &OSTreeConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*OSTreeConfig, error) {
	cfg := &OSTreeConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *OSTreeConfig) Validate() error {
	switch c.GetSource() {
	case SourceStdin:
	case SourceKafka:
		if c.KafkaConfig == nil || len(c.KafkaConfig.SeedBrokers) == 0 {
			return errors.New("config: kafka source requires kafka.seedBrokers")
		}
		if c.Topic == "" {
			return errors.New("config: kafka source requires a topic")
		}
	default:
		return fmt.Errorf("config: unknown source %q", c.Source)
	}
	for _, q := range c.Quantiles {
		if q < 0 || q > 100 {
			return fmt.Errorf("config: quantile %v outside [0, 100]", q)
		}
	}
	if c.MaxSamples < 0 {
		return fmt.Errorf("config: maxSamples must not be negative, got %d", c.MaxSamples)
	}
	return nil
}

func (c *OSTreeConfig) GetSource() string {
	if c.Source == "" {
		return SourceStdin
	}
	return c.Source
}

func (c *OSTreeConfig) GetStatsWindowSeconds() int {
	if c.StatsWindowSeconds <= 0 {
		return defaultStatsWindowSeconds
	}
	return c.StatsWindowSeconds
}

func (c *OSTreeConfig) GetQuantiles() []float64 {
	if len(c.Quantiles) == 0 {
		return defaultQuantiles
	}
	return c.Quantiles
}

func (c *OSTreeConfig) GetUpdateFrequencyMs() int {
	if c.UpdateFrequencyMs <= 0 {
		return defaultUpdateFrequencyMs
	}
	return c.UpdateFrequencyMs
}
