package fees

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"go-transfer-route/domain"
)

const CoinbaseUrl = "https://api.coinbase.com/v2"

// Coinbase USD prices from the public coinbase exchange rates, no API key needed
type Coinbase struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client
}

func NewCoinbase(url string, timeout time.Duration) *Coinbase {
	return &Coinbase{
		url:    url,
		client: newClient(timeout),
	}
}

// USDPrice inverts the amount of currency one USD buys.
// Exchange rates change every minute.
func (c *Coinbase) USDPrice(ctx context.Context, currency domain.Currency) (float64, error) {
	if currency == domain.USD {
		return 1, nil
	}

	var response struct {
		Data struct {
			Currency string
			Rates    map[string]decimal.Decimal // maps currency codes to rates
		}
	}
	url := fmt.Sprintf("%v/exchange-rates?currency=%v", c.url, domain.USD)
	if err := getJSON(ctx, &c.client, url, nil, &response); err != nil {
		return 0, fmt.Errorf("coinbase: %w", err)
	}

	rate, ok := response.Data.Rates[string(currency)]
	if !ok || !rate.IsPositive() {
		return 0, fmt.Errorf("coinbase: no rate for %v", currency)
	}
	price, _ := decimal.NewFromInt(1).Div(rate).Float64()
	return price, nil
}
