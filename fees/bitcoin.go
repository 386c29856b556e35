package fees

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-transfer-route/domain"
)

const (
	BitcoinFeeUrl = "https://api.blockchain.info/mempool/fees"

	// Satoshi one satoshi in BTC
	Satoshi = 0.00000001
)

// bitcoin estimates the fee of a standard transaction from mempool fee rates
type bitcoin struct {
	url    string
	client http.Client

	inputs   int
	outputs  int
	priority bool
}

// NewBitcoinOracle estimates BTC fees for a one-input, two-output transaction
// at priority fee rate.
func NewBitcoinOracle(url string, timeout time.Duration) Service {
	return &bitcoin{
		url:      url,
		client:   newClient(timeout),
		inputs:   1,
		outputs:  2,
		priority: true,
	}
}

// size of a legacy transaction in bytes
func (b *bitcoin) size() int {
	return (b.inputs * 148) + (b.outputs * 34) + 10 + b.inputs
}

func (b *bitcoin) NetworkFee(ctx context.Context, currency domain.Currency) (float64, error) {
	if currency != domain.BTC {
		return 0, fmt.Errorf("bitcoin oracle: no fee for %v", currency)
	}

	var response struct {
		Priority float64 `json:"priority"`
		Regular  float64 `json:"regular"`
	}
	if err := getJSON(ctx, &b.client, b.url, nil, &response); err != nil {
		return 0, fmt.Errorf("bitcoin oracle: %w", err)
	}

	satPerByte := response.Regular
	if b.priority {
		satPerByte = response.Priority
	}
	return satPerByte * float64(b.size()) * Satoshi, nil
}
