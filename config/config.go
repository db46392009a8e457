package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fisher821/opensea-erc1155/native/lootbox"
)

// Guarantee mirrors lootbox.Guarantee with TOML field names.
type Guarantee struct {
	Class       uint32 `toml:"Class"`
	MinQuantity uint32 `toml:"MinQuantity"`
}

// Option declares one purchasable tier in the configuration file.
type Option struct {
	QuantityPerOpen uint32      `toml:"QuantityPerOpen"`
	Guarantees      []Guarantee `toml:"Guarantee"`
	ClassWeights    []uint32    `toml:"ClassWeights"`
}

// Config carries the lootboxd host settings plus the option catalog
// definition loaded once at startup.
type Config struct {
	ListenAddress     string   `toml:"ListenAddress"`
	DataDir           string   `toml:"DataDir"`
	LogFile           string   `toml:"LogFile"`
	Env               string   `toml:"Env"`
	RequestsPerMinute float64  `toml:"RequestsPerMinute"`
	Burst             int      `toml:"Burst"`
	NumClasses        uint32   `toml:"NumClasses"`
	Options           []Option `toml:"Option"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddress:     ":8420",
		DataDir:           "./lootboxd-data",
		RequestsPerMinute: 120,
		Burst:             20,
		NumClasses:        6,
		Options: []Option{
			{QuantityPerOpen: 3},
			{QuantityPerOpen: 5, Guarantees: []Guarantee{{Class: 0, MinQuantity: 3}}},
			{QuantityPerOpen: 7, Guarantees: []Guarantee{
				{Class: 0, MinQuantity: 3},
				{Class: 2, MinQuantity: 2},
				{Class: 4, MinQuantity: 1},
			}},
		},
	}
}

// Load reads the configuration from the given path. An empty path yields the
// built-in defaults; unknown keys in the file are rejected so typos surface
// at startup instead of silently disabling settings.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return defaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	cfg := defaultConfig()
	cfg.Options = nil
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s contains unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8420"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./lootboxd-data"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	return cfg, nil
}

// CatalogOptions converts the configured tiers into the engine's option type.
// Validation happens in lootbox.NewCatalog to keep the invariants in one
// place.
func (c *Config) CatalogOptions() []lootbox.Option {
	options := make([]lootbox.Option, 0, len(c.Options))
	for _, opt := range c.Options {
		converted := lootbox.Option{QuantityPerOpen: opt.QuantityPerOpen}
		for _, g := range opt.Guarantees {
			converted.Guarantees = append(converted.Guarantees, lootbox.Guarantee{
				ClassOffset: g.Class,
				MinQuantity: g.MinQuantity,
			})
		}
		if len(opt.ClassWeights) > 0 {
			converted.ClassWeights = append([]uint32(nil), opt.ClassWeights...)
		}
		options = append(options, converted)
	}
	return options
}
