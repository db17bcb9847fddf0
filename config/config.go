package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"repledger/crypto"
)

// Config carries the node's runtime configuration.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	Backend       string `toml:"Backend"`
	GenesisFile   string `toml:"GenesisFile"`
	LogFile       string `toml:"LogFile"`
	Environment   string `toml:"Environment"`

	AdminAddress string `toml:"AdminAddress"`

	TokenName     string `toml:"TokenName"`
	TokenSymbol   string `toml:"TokenSymbol"`
	TokenDecimals uint8  `toml:"TokenDecimals"`
	TokenURI      string `toml:"TokenURI"`

	MaxSupply      uint64 `toml:"MaxSupply"`
	DecayRate      uint64 `toml:"DecayRate"`
	DecayPeriod    uint64 `toml:"DecayPeriod"`
	MaxAuditors    uint64 `toml:"MaxAuditors"`
	BaseRewardRate uint64 `toml:"BaseRewardRate"`
}

// Load loads the configuration from the given path, creating a commented
// default file when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = ":8645"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./data"
	}
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = "leveldb"
	}
	if strings.TrimSpace(c.TokenName) == "" {
		c.TokenName = "Reputation Token"
	}
	if strings.TrimSpace(c.TokenSymbol) == "" {
		c.TokenSymbol = "REPT"
	}
	if c.TokenDecimals == 0 {
		c.TokenDecimals = 6
	}
	if strings.TrimSpace(c.TokenURI) == "" {
		c.TokenURI = "https://repledger.example/token.json"
	}
	if c.MaxSupply == 0 {
		c.MaxSupply = 1_000_000_000_000_000
	}
	if c.DecayRate == 0 {
		c.DecayRate = 1
	}
	if c.DecayPeriod == 0 {
		c.DecayPeriod = 144
	}
	if c.MaxAuditors == 0 {
		c.MaxAuditors = 100
	}
	if c.BaseRewardRate == 0 {
		c.BaseRewardRate = 5
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case "leveldb", "bolt", "memory":
	default:
		return fmt.Errorf("config: unsupported backend %q", c.Backend)
	}
	if c.DecayRate >= 100 {
		return fmt.Errorf("config: decay rate must be below 100 percent")
	}
	if c.DecayPeriod == 0 {
		return fmt.Errorf("config: decay period must be positive")
	}
	if c.MaxSupply == 0 {
		return fmt.Errorf("config: max supply must be positive")
	}
	if strings.TrimSpace(c.AdminAddress) == "" {
		return fmt.Errorf("config: admin address required")
	}
	if _, err := c.Admin(); err != nil {
		return fmt.Errorf("config: invalid admin address: %w", err)
	}
	return nil
}

// Admin decodes the configured administrative identity.
func (c *Config) Admin() ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(c.AdminAddress))
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Raw(), nil
}

func createDefault(path string) (*Config, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	cfg := &Config{}
	cfg.applyDefaults()
	// The generated file still needs an AdminAddress before the node starts.
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("config: wrote default config to %s; set AdminAddress and restart", path)
}
