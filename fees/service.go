package fees

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-transfer-route/domain"
)

const DefaultTimeout = 5 * time.Second

// Service supplies network transfer fees, expressed in the currency transferred
type Service interface {
	NetworkFee(ctx context.Context, currency domain.Currency) (float64, error)
}

// Router dispatches each currency to the oracle of its network. Currencies
// without a network, or without an oracle configured, cost nothing.
type Router struct {
	Bitcoin  Service
	Ethereum Service
}

func (r *Router) NetworkFee(ctx context.Context, currency domain.Currency) (float64, error) {
	var oracle Service
	switch currency {
	case domain.BTC:
		oracle = r.Bitcoin
	case domain.ETH, domain.DAI, domain.USDT:
		oracle = r.Ethereum
	}
	if oracle == nil {
		return 0, nil
	}
	return oracle.NetworkFee(ctx, currency)
}

// Static a fixed table of fees; missing currencies cost nothing
type Static map[domain.Currency]float64

func (s Static) NetworkFee(_ context.Context, currency domain.Currency) (float64, error) {
	return s[currency], nil
}

// getJSON decodes the JSON body of url into v
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, v interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building http request: %w", err)
	}
	for k, values := range header {
		for _, value := range values {
			request.Header.Add(k, value)
		}
	}
	httpResponse, err := client.Do(request)
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
	if err := json.Unmarshal(bytes, v); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}

func newClient(timeout time.Duration) http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return http.Client{Timeout: timeout}
}
