// Package config loads the JSON run configuration of the access benchmark.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pojntfx/memory-access-patterns/pkg/alloc"
	"github.com/pojntfx/memory-access-patterns/pkg/patterns"
	"github.com/pojntfx/memory-access-patterns/pkg/utils"
)

var (
	ErrOpen          = errors.New("cannot open config file")
	ErrInvalidConfig = errors.New("invalid config")
)

const DefaultMemSize = "1G"

type Config struct {
	AccessPattern string `json:"access_pattern"`
	MemSize       string `json:"mem_size"`
	NUMANode      int    `json:"numa_node"`
	Iteration     int    `json:"iteration"`
	BytePerAccess int    `json:"byte_per_access"`
	AccessStride  int    `json:"access_stride"`
	RandomSeed    uint64 `json:"random_seed"`
	Verbose       bool   `json:"verbose"`

	NodeSize    int    `json:"node_size"`
	ShuffleSeed uint64 `json:"shuffle_seed"`

	Allocator       string `json:"allocator"`
	BackingFile     string `json:"backing_file"`
	PrefaultWorkers int    `json:"prefault_workers"`
}

func Default() Config {
	return Config{
		AccessPattern: patterns.Sequential.String(),
		MemSize:       DefaultMemSize,
		NUMANode:      0,
		Iteration:     patterns.DefaultIteration,
		BytePerAccess: patterns.DefaultBytePerAccess,
		AccessStride:  patterns.DefaultAccessStride,
		RandomSeed:    patterns.DefaultRandomSeed,
		NodeSize:      patterns.DefaultNodeSize,
		Allocator:     alloc.Auto,
	}
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer f.Close()

	cfg := Default()
	if err := utils.DecodeJSON(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v: %v", ErrInvalidConfig, path, err)
	}

	return cfg, cfg.Validate()
}

// Parse decodes a JSON config on top of the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := utils.DecodeJSON(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the options that do not depend on the selected pattern.
// byte_per_access and node_size are checked when the pattern is initialized.
func (c Config) Validate() error {
	if _, err := c.MemSizeBytes(); err != nil {
		return fmt.Errorf("%w: mem_size: %w", ErrInvalidConfig, err)
	}

	if c.Iteration < 1 {
		return fmt.Errorf("%w: iteration must be positive, got: %v", ErrInvalidConfig, c.Iteration)
	}

	if c.AccessStride < 1 {
		return fmt.Errorf("%w: access_stride must be positive, got: %v", ErrInvalidConfig, c.AccessStride)
	}

	if c.NUMANode < 0 {
		return fmt.Errorf("%w: numa_node must not be negative, got: %v", ErrInvalidConfig, c.NUMANode)
	}

	if c.PrefaultWorkers < 0 {
		return fmt.Errorf("%w: prefault_workers must not be negative, got: %v", ErrInvalidConfig, c.PrefaultWorkers)
	}

	if err := alloc.Validate(c.Allocator); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Allocator == alloc.File && c.BackingFile == "" {
		return fmt.Errorf("%w: the file allocator requires backing_file", ErrInvalidConfig)
	}

	return nil
}

func (c Config) MemSizeBytes() (uint64, error) {
	return ParseSize(c.MemSize)
}

// Options projects the config onto the pattern parameters.
func (c Config) Options() patterns.Options {
	return patterns.Options{
		Iteration:     c.Iteration,
		BytePerAccess: c.BytePerAccess,
		AccessStride:  c.AccessStride,
		RandomSeed:    c.RandomSeed,
		NodeSize:      c.NodeSize,
		ShuffleSeed:   c.ShuffleSeed,
		Verbose:       c.Verbose,
	}
}

// AllocatorOptions projects the config onto the allocator parameters.
func (c Config) AllocatorOptions() alloc.Options {
	return alloc.Options{
		BackingFile:     c.BackingFile,
		PrefaultWorkers: c.PrefaultWorkers,
		Verbose:         c.Verbose,
	}
}
