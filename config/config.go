// Package config loads transfer-route settings from a YAML file and
// TRANSFER_ROUTE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"go-transfer-route/fees"
	"go-transfer-route/rates"
	"go-transfer-route/transfer"
)

const envPrefix = "TRANSFER_ROUTE"

// Venue keys of RatesConfig.URLs
const (
	VenueRipio   = "ripio"
	VenueLetsBit = "letsbit"
	VenueBitvavo = "bitvavo"
	VenueBinance = "binance"
)

type Config struct {
	Log        LogConfig          `mapstructure:"log"        yaml:"log"`
	HTTP       HTTPConfig         `mapstructure:"http"       yaml:"http"`
	Rates      RatesConfig        `mapstructure:"rates"      yaml:"rates"`
	Fees       FeesConfig         `mapstructure:"fees"       yaml:"fees"`
	Processing ProcessingConfig   `mapstructure:"processing" yaml:"processing"`
	Routes     []transfer.Request `mapstructure:"routes"     yaml:"routes"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

type HTTPConfig struct {
	Address string        `mapstructure:"address" yaml:"address"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"` // outbound venue and oracle calls
}

type RatesConfig struct {
	CacheTTL time.Duration     `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	URLs     map[string]string `mapstructure:"urls"      yaml:"urls"`
}

// URL of venue, falling back to def when unset
func (c RatesConfig) URL(venue, def string) string {
	if u, ok := c.URLs[venue]; ok && u != "" {
		return u
	}
	return def
}

type FeesConfig struct {
	BitcoinURL     string `mapstructure:"bitcoin_url"     yaml:"bitcoin_url"`
	EthereumURL    string `mapstructure:"ethereum_url"    yaml:"ethereum_url"`
	CoinRankingURL string `mapstructure:"coinranking_url" yaml:"coinranking_url"`
	CoinRankingKey string `mapstructure:"coinranking_key" yaml:"coinranking_key"` // coinbase prices tokens when unset
	CoinbaseURL    string `mapstructure:"coinbase_url"    yaml:"coinbase_url"`
}

type ProcessingConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Load reads config.yaml from ./config or the working directory when
// present; a missing file leaves the defaults.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads the config file at path, which must exist.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.timeout", rates.DefaultTimeout)

	v.SetDefault("rates.cache_ttl", time.Minute)
	v.SetDefault("rates.urls", map[string]string{
		VenueRipio:   rates.RipioUrl,
		VenueLetsBit: rates.LetsBitUrl,
		VenueBitvavo: rates.BitvavoUrl,
		VenueBinance: rates.BinanceUrl,
	})

	v.SetDefault("fees.bitcoin_url", fees.BitcoinFeeUrl)
	v.SetDefault("fees.ethereum_url", fees.EthereumFeeUrl)
	v.SetDefault("fees.coinranking_url", fees.CoinRankingUrl)
	v.SetDefault("fees.coinranking_key", "")
	v.SetDefault("fees.coinbase_url", fees.CoinbaseUrl)

	v.SetDefault("processing.concurrency", 4)
}
