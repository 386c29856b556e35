package ledger

import (
	"context"
	"fmt"

	"github.com/go-kit/log/level"

	"go-transfer-route/domain"
)

// Exchange a convertible institution. On top of transfers it converts
// between the currencies of its supported pairs, priced by bid/ask quotes
// plus a commission.
type Exchange struct {
	*Wallet

	pairs      map[domain.Pair]bool
	commission float64
	rates      RateProvider

	// book latest recorded rates per pair, overwritten on every fetch
	book map[domain.Pair]map[domain.PriceType]domain.ExchangeRate
}

var _ Institution = (*Exchange)(nil)

// NewExchange constructs an Exchange. Each pair is stored as given; its Base
// is the leg that is bought or sold.
func NewExchange(name string, pairs []domain.Pair, commission float64, rates RateProvider, opts ...Option) *Exchange {
	e := &Exchange{
		Wallet:     newWallet(name, opts),
		pairs:      make(map[domain.Pair]bool, len(pairs)),
		commission: commission,
		rates:      rates,
		book:       map[domain.Pair]map[domain.PriceType]domain.ExchangeRate{},
	}
	e.Wallet.owner = e
	for _, p := range pairs {
		e.pairs[p] = true
	}
	return e
}

func (e *Exchange) Commission() float64 {
	return e.commission
}

// Pairs the supported pairs in stored order
func (e *Exchange) Pairs() []domain.Pair {
	pairs := make([]domain.Pair, 0, len(e.pairs))
	for p := range e.pairs {
		pairs = append(pairs, p)
	}
	return pairs
}

func (e *Exchange) ResolvePair(a, b domain.Currency) (domain.Pair, error) {
	p := domain.Pair{Base: a, Counter: b}
	if e.pairs[p] {
		return p, nil
	}
	if e.pairs[p.Reverse()] {
		return p.Reverse(), nil
	}
	return domain.Pair{}, &domain.UnsupportedPairError{Institution: e.name, From: a, To: b}
}

// Rate the latest recorded rate of one side of a pair
func (e *Exchange) Rate(side domain.PriceType, pair domain.Pair) (domain.ExchangeRate, error) {
	rate, ok := e.book[pair][side]
	if !ok {
		return domain.ExchangeRate{}, &domain.RateUnavailableError{
			Institution: e.name,
			Pair:        pair,
			Side:        side,
			Err:         fmt.Errorf("not yet fetched"),
		}
	}
	return rate, nil
}

// sync fetches a fresh quote for pair and records it in the book
func (e *Exchange) sync(ctx context.Context, pair domain.Pair) error {
	if e.rates == nil {
		return &domain.RateUnavailableError{Institution: e.name, Pair: pair, Err: fmt.Errorf("no rate provider")}
	}
	quote, err := e.rates.Quote(ctx, pair)
	if err != nil {
		return &domain.RateUnavailableError{Institution: e.name, Pair: pair, Err: err}
	}

	rates := map[domain.PriceType]domain.ExchangeRate{}
	for side, rate := range map[domain.PriceType]float64{domain.BID: quote.Bid, domain.ASK: quote.Ask} {
		if rate <= 0 {
			continue
		}
		rates[side] = domain.ExchangeRate{Side: side, From: pair.Base, To: pair.Counter, Rate: rate}
	}
	e.book[pair] = rates

	level.Debug(e.logger).Log("msg", "synced rates", "institution", e.name, "pair", pair, "bid", quote.Bid, "ask", quote.Ask)
	return nil
}

// ExecuteExchange prices the movement with a freshly fetched quote.
// Buying the pair's base uses the ASK, selling it uses the BID. The
// commission always reduces what the customer ends up with.
func (e *Exchange) ExecuteExchange(ctx context.Context, m *Movement) (float64, error) {
	src, dst := m.Source.Currency, m.Destination.Currency
	pair, err := e.ResolvePair(src, dst)
	if err != nil {
		return 0, err
	}
	if err := e.sync(ctx, pair); err != nil {
		return 0, err
	}

	keep := 1.0 - e.commission
	buying := dst == pair.Base

	side := domain.BID
	if buying {
		side = domain.ASK
	}
	rate, err := e.Rate(side, pair)
	if err != nil {
		return 0, err
	}
	price := rate.Rate

	var amount float64
	switch {
	case buying && !m.Reverse:
		amount = (m.Amount * keep) / price
	case buying && m.Reverse:
		amount = (m.Amount * price) / keep
	case !buying && !m.Reverse:
		amount = (m.Amount * price) * keep
	default:
		amount = m.Amount / (price * keep)
	}

	if m.Reverse {
		m.Destination.Withdraw(m.Amount)
		m.Source.Deposit(amount)
	} else {
		m.Source.Withdraw(m.Amount)
		m.Destination.Deposit(amount)
	}

	level.Debug(e.logger).Log("msg", "exchange", "institution", e.name, "from", src, "to", dst,
		"side", side, "price", price, "commission", e.commission,
		"amount", m.Amount, "reverse", m.Reverse, "result", amount)

	return amount, nil
}
