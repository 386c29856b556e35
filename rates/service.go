package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-transfer-route/domain"
)

const (
	RipioUrl   = "https://app.ripio.com/api/v3/public/rates/?country=AR"
	LetsBitUrl = "https://letsbit.io/api/v1/exchange/public/markets/tickers"
	BitvavoUrl = "https://api.bitvavo.com/v2/ticker/book"
	BinanceUrl = "https://www.binance.com/api/v3/ticker/price"

	DefaultTimeout = 5 * time.Second
)

// Service supplies bid and ask prices of a pair's base currency in its counter currency
type Service interface {
	Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error)
}

// venue a public ticker endpoint
type venue struct {
	// url ticker url
	url string

	// client for HTTP requests
	client http.Client
}

func newVenue(url string, timeout time.Duration) venue {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return venue{
		url:    url,
		client: http.Client{Timeout: timeout},
	}
}

// get decodes the JSON body of the ticker url into v
func (v *venue) get(ctx context.Context, into interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := v.client.Do(request)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return fmt.Errorf("http get: unexpected status %v", httpResponse.Status)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("reading json: %w", err)
	}
	if err := json.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}

func quote(bid, ask decimal.Decimal) domain.Quote {
	b, _ := bid.Float64()
	a, _ := ask.Float64()
	return domain.Quote{Bid: b, Ask: a}
}

type ripio struct {
	venue
}

// NewRipioService Ripio public rates, ticker "BTC_ARS"
func NewRipioService(url string, timeout time.Duration) Service {
	return &ripio{newVenue(url, timeout)}
}

func (s *ripio) Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	var response []struct {
		Ticker   string          `json:"ticker"`
		BuyRate  decimal.Decimal `json:"buy_rate"`
		SellRate decimal.Decimal `json:"sell_rate"`
	}
	if err := s.get(ctx, &response); err != nil {
		return domain.Quote{}, fmt.Errorf("ripio [%v]: %w", pair, err)
	}

	key := fmt.Sprintf("%v_%v", pair.Base, pair.Counter)
	for _, r := range response {
		if r.Ticker == key {
			return quote(r.SellRate, r.BuyRate), nil
		}
	}
	return domain.Quote{}, fmt.Errorf("ripio: unknown ticker %v", key)
}

type letsBit struct {
	venue
}

// NewLetsBitService Let's Bit market tickers, keyed "btcars"
func NewLetsBitService(url string, timeout time.Duration) Service {
	return &letsBit{newVenue(url, timeout)}
}

func (s *letsBit) Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	var response map[string]struct {
		Ticker struct {
			Buy  decimal.Decimal `json:"buy"`
			Sell decimal.Decimal `json:"sell"`
		} `json:"ticker"`
	}
	if err := s.get(ctx, &response); err != nil {
		return domain.Quote{}, fmt.Errorf("letsbit [%v]: %w", pair, err)
	}

	key := strings.ToLower(fmt.Sprintf("%v%v", pair.Base, pair.Counter))
	market, ok := response[key]
	if !ok {
		return domain.Quote{}, fmt.Errorf("letsbit: unknown market %v", key)
	}
	return quote(market.Ticker.Buy, market.Ticker.Sell), nil
}

type bitvavo struct {
	venue
}

// NewBitvavoService Bitvavo order book tickers, market "BTC-EUR"
func NewBitvavoService(url string, timeout time.Duration) Service {
	return &bitvavo{newVenue(url, timeout)}
}

func (s *bitvavo) Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	var response []struct {
		Market string          `json:"market"`
		Bid    decimal.Decimal `json:"bid"`
		Ask    decimal.Decimal `json:"ask"`
	}
	if err := s.get(ctx, &response); err != nil {
		return domain.Quote{}, fmt.Errorf("bitvavo [%v]: %w", pair, err)
	}

	key := fmt.Sprintf("%v-%v", pair.Base, pair.Counter)
	for _, r := range response {
		if r.Market == key {
			return quote(r.Bid, r.Ask), nil
		}
	}
	return domain.Quote{}, fmt.Errorf("bitvavo: unknown market %v", key)
}

type binance struct {
	venue
}

// NewBinanceService Binance last prices, symbol "BTCEUR". A pair listed the
// other way round is inverted. Bid and ask are both the last price.
func NewBinanceService(url string, timeout time.Duration) Service {
	return &binance{newVenue(url, timeout)}
}

func (s *binance) Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	var response []struct {
		Symbol string          `json:"symbol"`
		Price  decimal.Decimal `json:"price"`
	}
	if err := s.get(ctx, &response); err != nil {
		return domain.Quote{}, fmt.Errorf("binance [%v]: %w", pair, err)
	}

	direct := fmt.Sprintf("%v%v", pair.Base, pair.Counter)
	inverse := fmt.Sprintf("%v%v", pair.Counter, pair.Base)
	for _, r := range response {
		if r.Symbol == direct {
			return quote(r.Price, r.Price), nil
		}
	}
	for _, r := range response {
		if r.Symbol == inverse {
			if r.Price.IsZero() {
				return domain.Quote{}, fmt.Errorf("binance: zero price for %v", inverse)
			}
			price := decimal.NewFromInt(1).Div(r.Price)
			return quote(price, price), nil
		}
	}
	return domain.Quote{}, fmt.Errorf("binance: unknown symbol %v", direct)
}
