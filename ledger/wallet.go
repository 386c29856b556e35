package ledger

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"go-transfer-route/domain"
)

// Wallet a non-convertible institution: banks and self-custody wallets.
// It moves funds within one currency and cannot exchange.
type Wallet struct {
	name     string
	accounts []*Account

	// owner the institution accounts are created for. A Wallet embedded in an
	// Exchange creates accounts owned by the Exchange.
	owner Institution

	// fixedFees flat withdrawal fees by currency
	fixedFees map[domain.Currency]float64

	// fees network fee lookup for crypto currencies, nil for none
	fees FeeProvider

	logger log.Logger
}

var _ Institution = (*Wallet)(nil)

// NewWallet constructs a Wallet
func NewWallet(name string, opts ...Option) *Wallet {
	w := newWallet(name, opts)
	w.owner = w
	return w
}

func newWallet(name string, opts []Option) *Wallet {
	w := &Wallet{
		name:      name,
		fixedFees: map[domain.Currency]float64{},
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wallet) Name() string {
	return w.name
}

func (w *Wallet) String() string {
	return w.name
}

func (w *Wallet) Accounts() []*Account {
	return w.accounts
}

func (w *Wallet) CreateAccount(currency domain.Currency, initialBalance float64) *Account {
	account := newAccount(w.owner, len(w.accounts)+1, currency, initialBalance)
	w.accounts = append(w.accounts, account)
	return account
}

// ResolvePair always fails, a wallet has no markets.
func (w *Wallet) ResolvePair(a, b domain.Currency) (domain.Pair, error) {
	return domain.Pair{}, &domain.UnsupportedPairError{Institution: w.name, From: a, To: b}
}

func (w *Wallet) TransferFee(ctx context.Context, currency domain.Currency) (float64, error) {
	if fee, ok := w.fixedFees[currency]; ok {
		return fee, nil
	}
	if w.fees == nil || !currency.IsCrypto() {
		return 0, nil
	}
	fee, err := w.fees.NetworkFee(ctx, currency)
	if err != nil {
		return 0, &domain.FeeUnavailableError{Institution: w.name, Currency: currency, Err: err}
	}
	return fee, nil
}

// ExecuteTransfer charges the fee of the destination currency against the
// side the value originates from: forward the destination receives
// amount-fee, reverse the source must put in amount+fee.
func (w *Wallet) ExecuteTransfer(ctx context.Context, m *Movement) (float64, error) {
	fee, err := w.TransferFee(ctx, m.Destination.Currency)
	if err != nil {
		return 0, err
	}

	var amount float64
	if m.Reverse {
		amount = m.Amount + fee
		m.Destination.Withdraw(m.Amount)
		m.Source.Deposit(amount)
	} else {
		amount = m.Amount - fee
		m.Source.Withdraw(m.Amount)
		m.Destination.Deposit(amount)
	}

	level.Debug(w.logger).Log("msg", "transfer", "institution", w.name, "currency", m.Destination.Currency,
		"amount", m.Amount, "fee", fee, "reverse", m.Reverse, "result", amount)

	return amount, nil
}

// ExecuteExchange always fails, a wallet has no markets.
func (w *Wallet) ExecuteExchange(_ context.Context, m *Movement) (float64, error) {
	return 0, &domain.UnsupportedPairError{Institution: w.name, From: m.Source.Currency, To: m.Destination.Currency}
}
