package fees

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"go-transfer-route/domain"
)

const (
	EthereumFeeUrl = "https://ycharts.com/charts/fund_data.json?securities=id:I:EATFND,include:true,,"
	CoinRankingUrl = "https://api.coinranking.com/v2"
)

// PriceLookup prices a currency in USD
type PriceLookup interface {
	USDPrice(ctx context.Context, currency domain.Currency) (float64, error)
}

// ethereum reads the average transaction fee in USD and converts it into the
// token being moved
type ethereum struct {
	url    string
	client http.Client
	prices PriceLookup
}

// NewEthereumOracle fees for ETH and ERC-20 tokens (DAI, USDT)
func NewEthereumOracle(url string, prices PriceLookup, timeout time.Duration) Service {
	return &ethereum{
		url:    url,
		client: newClient(timeout),
		prices: prices,
	}
}

func (e *ethereum) NetworkFee(ctx context.Context, currency domain.Currency) (float64, error) {
	switch currency {
	case domain.ETH, domain.DAI, domain.USDT, domain.USD:
	default:
		return 0, fmt.Errorf("ethereum oracle: no fee for %v", currency)
	}

	var response struct {
		ChartData [][]struct {
			LastValue float64 `json:"last_value"`
		} `json:"chart_data"`
	}
	if err := getJSON(ctx, &e.client, e.url, nil, &response); err != nil {
		return 0, fmt.Errorf("ethereum oracle: %w", err)
	}
	if len(response.ChartData) == 0 || len(response.ChartData[0]) == 0 {
		return 0, fmt.Errorf("ethereum oracle: empty chart data")
	}
	usd := response.ChartData[0][0].LastValue

	if currency == domain.USD {
		return usd, nil
	}
	price, err := e.prices.USDPrice(ctx, currency)
	if err != nil {
		return 0, fmt.Errorf("ethereum oracle [%v]: %w", currency, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("ethereum oracle: non-positive %v price", currency)
	}
	return usd / price, nil
}

// CoinRanking USD prices from the coinranking coins listing
type CoinRanking struct {
	url    string
	apiKey string
	client http.Client
}

func NewCoinRanking(url, apiKey string, timeout time.Duration) *CoinRanking {
	return &CoinRanking{
		url:    url,
		apiKey: apiKey,
		client: newClient(timeout),
	}
}

func (c *CoinRanking) USDPrice(ctx context.Context, currency domain.Currency) (float64, error) {
	if currency == domain.USD {
		return 1, nil
	}

	var response struct {
		Data struct {
			Coins []struct {
				Symbol string          `json:"symbol"`
				Price  decimal.Decimal `json:"price"`
			} `json:"coins"`
		} `json:"data"`
	}
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("x-access-token", c.apiKey)
	}
	if err := getJSON(ctx, &c.client, c.url+"/coins", header, &response); err != nil {
		return 0, fmt.Errorf("coinranking: %w", err)
	}

	for _, coin := range response.Data.Coins {
		if coin.Symbol == string(currency) {
			price, _ := coin.Price.Float64()
			return price, nil
		}
	}
	return 0, fmt.Errorf("coinranking: no price for %v", currency)
}
