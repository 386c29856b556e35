package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-transfer-route/broker"
	"go-transfer-route/domain"
	"go-transfer-route/fees"
	"go-transfer-route/rates"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, rates.DefaultTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, time.Minute, cfg.Rates.CacheTTL)
	assert.Equal(t, rates.BitvavoUrl, cfg.Rates.URL(VenueBitvavo, ""))
	assert.Equal(t, fees.BitcoinFeeUrl, cfg.Fees.BitcoinURL)
	assert.Equal(t, fees.CoinRankingUrl, cfg.Fees.CoinRankingURL)
	assert.Equal(t, fees.CoinbaseUrl, cfg.Fees.CoinbaseURL)
	assert.Equal(t, 4, cfg.Processing.Concurrency)
	assert.Empty(t, cfg.Routes)
}

const sample = `
log:
  level: debug
http:
  address: 127.0.0.1:9090
  timeout: 2s
rates:
  cache_ttl: 30s
fees:
  coinranking_key: secret
processing:
  concurrency: 8
routes:
  - direction: send
    amount: 1000
    hops:
      - institution: Banco Galicia ARG
        currency: ARS
      - institution: Ripio
        currency: ARS
      - institution: Ripio
        currency: BTC
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, sample))

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Address)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Rates.CacheTTL)
	assert.Equal(t, "secret", cfg.Fees.CoinRankingKey)
	assert.Equal(t, fees.EthereumFeeUrl, cfg.Fees.EthereumURL)
	assert.Equal(t, 8, cfg.Processing.Concurrency)

	require.Len(t, cfg.Routes, 1)
	r := cfg.Routes[0]
	assert.Equal(t, domain.SEND, r.Direction)
	assert.Equal(t, 1000.0, r.Amount)
	require.Len(t, r.Hops, 3)
	assert.Equal(t, broker.BancoGalicia, r.Hops[0].Institution)
	assert.Equal(t, domain.BTC, r.Hops[2].Currency)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("TRANSFER_ROUTE_HTTP_ADDRESS", ":7070")
	t.Setenv("TRANSFER_ROUTE_FEES_COINRANKING_KEY", "from-env")

	cfg, err := LoadFromFile(writeConfig(t, sample))

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Address)
	assert.Equal(t, "from-env", cfg.Fees.CoinRankingKey)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRatesConfig_URL(t *testing.T) {
	c := RatesConfig{URLs: map[string]string{VenueRipio: "http://ripio.test", VenueBinance: ""}}

	assert.Equal(t, "http://ripio.test", c.URL(VenueRipio, rates.RipioUrl))
	assert.Equal(t, rates.BinanceUrl, c.URL(VenueBinance, rates.BinanceUrl))
	assert.Equal(t, rates.LetsBitUrl, c.URL(VenueLetsBit, rates.LetsBitUrl))
}
