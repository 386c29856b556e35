package ledger

import (
	"context"

	"github.com/go-kit/log"

	"go-transfer-route/domain"
)

// Institution holds accounts and executes the movements between them.
type Institution interface {
	Name() string
	Accounts() []*Account
	CreateAccount(currency domain.Currency, initialBalance float64) *Account

	// ResolvePair returns the pair in the order the institution stores it.
	// Fails with *domain.UnsupportedPairError when neither order is supported.
	ResolvePair(a, b domain.Currency) (domain.Pair, error)

	// TransferFee the fee charged to move currency out of the institution,
	// expressed in that currency.
	TransferFee(ctx context.Context, currency domain.Currency) (float64, error)

	// ExecuteTransfer moves funds between two accounts of the same currency
	// and returns the amount arriving at the far end of the movement.
	ExecuteTransfer(ctx context.Context, m *Movement) (float64, error)

	// ExecuteExchange converts funds between two accounts of different
	// currencies and returns the amount arriving at the far end of the movement.
	ExecuteExchange(ctx context.Context, m *Movement) (float64, error)
}

// Movement the unit of work an institution executes. When Reverse is set,
// Amount is what must arrive at Destination and the result is what Source
// has to put in.
type Movement struct {
	Amount      float64
	Source      *Account
	Destination *Account
	Reverse     bool
}

// RateProvider supplies bid and ask prices for a pair.
// Implementations own any caching or retrying.
type RateProvider interface {
	Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error)
}

// FeeProvider supplies blockchain network fees, expressed in the currency withdrawn.
type FeeProvider interface {
	NetworkFee(ctx context.Context, currency domain.Currency) (float64, error)
}

// Option configures a Wallet or Exchange
type Option func(*Wallet)

// WithNetworkFees charges crypto transfers the fee reported by fees
func WithNetworkFees(fees FeeProvider) Option {
	return func(w *Wallet) {
		w.fees = fees
	}
}

// WithFixedFees charges a flat withdrawal fee per currency. Fixed fees take
// precedence over network fees.
func WithFixedFees(fixed map[domain.Currency]float64) Option {
	return func(w *Wallet) {
		for c, fee := range fixed {
			w.fixedFees[c] = fee
		}
	}
}

func WithLogger(logger log.Logger) Option {
	return func(w *Wallet) {
		w.logger = logger
	}
}
