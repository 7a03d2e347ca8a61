package alloc

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is an allocation profile, loadable from a YAML file.
// Nil Seed means "not set": the random strategy then seeds from EntropySeed.
type Config struct {
	Strategy string        `yaml:"strategy"`
	Seed     *int64        `yaml:"seed"`
	Limits   Limits        `yaml:"limits"`
	Batches  []BatchConfig `yaml:"batches"`
}

// BatchConfig declares one batch of the profile.
type BatchConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// LoadConfig reads and parses a YAML allocation profile.
// Unknown fields are rejected so typos surface as errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading allocation profile: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing allocation profile: %w", err)
	}
	return &cfg, nil
}

// Validate checks strategy name, limits and batch declarations.
func (c *Config) Validate() error {
	if !IsValidStrategy(c.Strategy) {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.Limits.MaxStudents < 0 {
		return fmt.Errorf("max_students must be non-negative, got %d", c.Limits.MaxStudents)
	}
	if c.Limits.MaxBatches < 0 {
		return fmt.Errorf("max_batches must be non-negative, got %d", c.Limits.MaxBatches)
	}
	maxBatches := c.Limits.withDefaults().MaxBatches
	if len(c.Batches) > maxBatches {
		return fmt.Errorf("%d batches declared, limit is %d", len(c.Batches), maxBatches)
	}
	for i, b := range c.Batches {
		if b.Name == "" {
			return fmt.Errorf("batch %d: name must not be empty", i)
		}
		if b.Capacity <= 0 {
			return fmt.Errorf("batch %d %q: capacity must be > 0, got %d", i, b.Name, b.Capacity)
		}
	}
	return nil
}

// NewStore creates a store with the profile's limits and batches.
func (c *Config) NewStore() (*Store, error) {
	s := NewStore(c.Limits)
	if err := c.Apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply adds the profile's batches to s in file order.
func (c *Config) Apply(s *Store) error {
	for _, b := range c.Batches {
		if _, err := s.AddBatch(b.Name, b.Capacity); err != nil {
			return err
		}
	}
	return nil
}

// TotalCapacity returns the sum of declared batch capacities.
func (c *Config) TotalCapacity() int {
	total := 0
	for _, b := range c.Batches {
		total += b.Capacity
	}
	return total
}
