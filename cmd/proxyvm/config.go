package main

import (
	"os"

	"github.com/BurntSushi/toml"

	"regvm/vm"
)

// Config is the optional on-disk override for a CPU's Abi. Grounded on
// lookbusy1344-arm_emulator's config.Config: a plain nested struct with
// `toml` tags and a DefaultConfig constructor, loaded with
// BurntSushi/toml rather than hand-rolled flag parsing.
type Config struct {
	Machine struct {
		RegisterCount uint32 `toml:"register_count"`
		SystemMemory  uint32 `toml:"system_memory"`
		MemorySize    uint32 `toml:"memory_size"`
	} `toml:"machine"`
}

// DefaultConfig mirrors vm.DefaultAbi so a config file only needs to
// name the fields it wants to override.
func DefaultConfig() *Config {
	abi := vm.DefaultAbi()

	cfg := &Config{}
	cfg.Machine.RegisterCount = abi.RegisterCount
	cfg.Machine.SystemMemory = abi.SystemMemory
	cfg.Machine.MemorySize = abi.MemorySize
	return cfg
}

// LoadConfig reads a TOML file at path, starting from DefaultConfig so
// unspecified fields keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Abi converts the loaded config into a vm.Abi.
func (c *Config) Abi() vm.Abi {
	return vm.Abi{
		RegisterCount: c.Machine.RegisterCount,
		SystemMemory:  c.Machine.SystemMemory,
		MemorySize:    c.Machine.MemorySize,
	}
}
