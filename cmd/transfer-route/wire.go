package main

import (
	"context"

	"github.com/go-kit/log"

	"go-transfer-route/broker"
	"go-transfer-route/config"
	"go-transfer-route/fees"
	"go-transfer-route/ledger"
	"go-transfer-route/rates"
	"go-transfer-route/transfer"
)

// wire builds the transfer service on live venue quotes and fee oracles.
// Quote caches refresh until ctx is done.
func wire(ctx context.Context, cfg *config.Config, logger log.Logger) transfer.Service {
	timeout := cfg.HTTP.Timeout

	venues := map[broker.ID]rates.Service{
		broker.Ripio:   rates.NewRipioService(cfg.Rates.URL(config.VenueRipio, rates.RipioUrl), timeout),
		broker.LetsBit: rates.NewLetsBitService(cfg.Rates.URL(config.VenueLetsBit, rates.LetsBitUrl), timeout),
		broker.Bitvavo: rates.NewBitvavoService(cfg.Rates.URL(config.VenueBitvavo, rates.BitvavoUrl), timeout),
		broker.Binance: rates.NewBinanceService(cfg.Rates.URL(config.VenueBinance, rates.BinanceUrl), timeout),
	}

	providers := map[broker.ID]ledger.RateProvider{}
	for id, s := range venues {
		venueLogger := log.With(logger, "venue", string(id))
		s = rates.NewLoggingService(log.With(venueLogger, "component", "rates_rest"), s)
		if cfg.Rates.CacheTTL > 0 {
			s = rates.NewCachingService(ctx, cfg.Rates.CacheTTL, log.With(venueLogger, "component", "rates_cache"), s)
			s = rates.NewLoggingService(log.With(venueLogger, "component", "rates_cache"), s)
		}
		providers[id] = s
	}

	var prices fees.PriceLookup = fees.NewCoinbase(cfg.Fees.CoinbaseURL, timeout)
	if cfg.Fees.CoinRankingKey != "" {
		prices = fees.NewCoinRanking(cfg.Fees.CoinRankingURL, cfg.Fees.CoinRankingKey, timeout)
	}
	feeService := fees.Service(&fees.Router{
		Bitcoin: fees.NewLoggingService(log.With(logger, "component", "fees_bitcoin"),
			fees.NewBitcoinOracle(cfg.Fees.BitcoinURL, timeout)),
		Ethereum: fees.NewLoggingService(log.With(logger, "component", "fees_ethereum"),
			fees.NewEthereumOracle(cfg.Fees.EthereumURL, prices, timeout)),
	})

	deps := broker.Deps{
		Rates:  providers,
		Fees:   feeService,
		Logger: log.With(logger, "component", "ledger"),
	}
	service := transfer.NewService(broker.Default(), deps, cfg.Processing.Concurrency)
	return transfer.NewLoggingService(log.With(logger, "component", "transfer"), service)
}
