package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-transfer-route/domain"
)

type mockRates struct {
	quotes map[domain.Pair]domain.Quote
	err    error
	calls  int
}

func (m *mockRates) Quote(_ context.Context, pair domain.Pair) (domain.Quote, error) {
	m.calls++
	if m.err != nil {
		return domain.Quote{}, m.err
	}
	q, ok := m.quotes[pair]
	if !ok {
		return domain.Quote{}, errors.New("no quote")
	}
	return q, nil
}

type mockFees struct {
	fees map[domain.Currency]float64
	err  error
}

func (m *mockFees) NetworkFee(_ context.Context, currency domain.Currency) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.fees[currency], nil
}

var btcArs = domain.Pair{Base: domain.BTC, Counter: domain.ARS}

func TestCreateAccount(t *testing.T) {
	w := NewWallet("Rabobank NL")
	a1 := w.CreateAccount(domain.EUR, 0)
	a2 := w.CreateAccount(domain.USD, 12.5)

	assert.Equal(t, 1, a1.Ordinal)
	assert.Equal(t, 2, a2.Ordinal)
	assert.Equal(t, "Rabobank NL:EUR", a1.Label)
	assert.Equal(t, 12.5, a2.Balance())
	assert.Equal(t, []*Account{a1, a2}, w.Accounts())
	assert.Same(t, w, a1.Institution())

	e := NewExchange("Ripio", []domain.Pair{btcArs}, 0.01, &mockRates{})
	a := e.CreateAccount(domain.BTC, 0)
	assert.Same(t, e, a.Institution(), "exchange accounts are owned by the exchange, not its wallet")
	assert.Equal(t, "Ripio:BTC", a.String())
}

func TestAccount_AllowsNegativeBalance(t *testing.T) {
	a := NewWallet("MEW").CreateAccount(domain.ETH, 1)
	a.Withdraw(3)
	assert.Equal(t, -2.0, a.Balance())
	a.Deposit(0.5)
	assert.Equal(t, -1.5, a.Balance())
}

func TestWallet_ExecuteTransfer(t *testing.T) {
	fees := &mockFees{fees: map[domain.Currency]float64{domain.BTC: 0.001}}

	tests := []struct {
		name     string
		currency domain.Currency
		opts     []Option
		reverse  bool
		want     float64
		wantSrc  float64
		wantDst  float64
	}{
		{"forward network fee", domain.BTC, []Option{WithNetworkFees(fees)}, false, 0.999, -1, 0.999},
		{"reverse network fee", domain.BTC, []Option{WithNetworkFees(fees)}, true, 1.001, 1.001, -1},
		{"fixed fee wins", domain.BTC, []Option{WithNetworkFees(fees), WithFixedFees(map[domain.Currency]float64{domain.BTC: 0.25})}, false, 0.75, -1, 0.75},
		{"fiat is free", domain.EUR, []Option{WithNetworkFees(fees)}, false, 1, -1, 1},
		{"no provider", domain.BTC, nil, true, 1, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWallet("w", tt.opts...)
			src := w.CreateAccount(tt.currency, 0)
			dst := w.CreateAccount(tt.currency, 0)

			got, err := w.ExecuteTransfer(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst, Reverse: tt.reverse})

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.InDelta(t, tt.wantSrc, src.Balance(), 1e-12)
			assert.InDelta(t, tt.wantDst, dst.Balance(), 1e-12)
		})
	}
}

func TestWallet_ExecuteTransfer_FeeUnavailable(t *testing.T) {
	w := NewWallet("MEW", WithNetworkFees(&mockFees{err: errors.New("oracle down")}))
	src := w.CreateAccount(domain.ETH, 0)
	dst := w.CreateAccount(domain.ETH, 0)

	_, err := w.ExecuteTransfer(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst})

	var target *domain.FeeUnavailableError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "MEW", target.Institution)
	assert.Equal(t, domain.ETH, target.Currency)
	assert.Equal(t, 0.0, src.Balance(), "no mutation on failure")
	assert.Equal(t, 0.0, dst.Balance())
}

func TestWallet_TransferFee_Monotone(t *testing.T) {
	last := 1e9
	for _, fee := range []float64{0, 0.0001, 0.01, 0.5, 1} {
		w := NewWallet("w", WithFixedFees(map[domain.Currency]float64{domain.DAI: fee}))
		src := w.CreateAccount(domain.DAI, 0)
		dst := w.CreateAccount(domain.DAI, 0)

		got, err := w.ExecuteTransfer(context.Background(), &Movement{Amount: 10, Source: src, Destination: dst})

		require.NoError(t, err)
		assert.LessOrEqual(t, got, last)
		last = got
	}
}

func TestExchange_ExecuteExchange(t *testing.T) {
	rates := &mockRates{quotes: map[domain.Pair]domain.Quote{btcArs: {Bid: 90, Ask: 100}}}

	tests := []struct {
		name     string
		from, to domain.Currency
		amount   float64
		reverse  bool
		want     float64
	}{
		{"buy forward", domain.ARS, domain.BTC, 1000, false, (1000 * 0.99) / 100},
		{"buy reverse", domain.ARS, domain.BTC, 5, true, (5 * 100) / 0.99},
		{"sell forward", domain.BTC, domain.ARS, 2, false, (2 * 90) * 0.99},
		{"sell reverse", domain.BTC, domain.ARS, 180, true, 180 / (90 * 0.99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExchange("Ripio", []domain.Pair{btcArs}, 0.01, rates)
			src := e.CreateAccount(tt.from, 0)
			dst := e.CreateAccount(tt.to, 0)

			got, err := e.ExecuteExchange(context.Background(), &Movement{Amount: tt.amount, Source: src, Destination: dst, Reverse: tt.reverse})

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
			if tt.reverse {
				assert.InDelta(t, -tt.amount, dst.Balance(), 1e-9)
				assert.InDelta(t, got, src.Balance(), 1e-9)
			} else {
				assert.InDelta(t, -tt.amount, src.Balance(), 1e-9)
				assert.InDelta(t, got, dst.Balance(), 1e-9)
			}
		})
	}
}

func TestExchange_CommissionNeverHelpsCustomer(t *testing.T) {
	rates := &mockRates{quotes: map[domain.Pair]domain.Quote{btcArs: {Bid: 90, Ask: 100}}}
	commissions := []float64{0, 0.001, 0.0025, 0.01, 0.1, 0.5}

	for _, dir := range []struct {
		from, to domain.Currency
	}{{domain.ARS, domain.BTC}, {domain.BTC, domain.ARS}} {
		lastForward, lastReverse := 1e18, 0.0
		for _, c := range commissions {
			e := NewExchange("x", []domain.Pair{btcArs}, c, rates)
			src := e.CreateAccount(dir.from, 0)
			dst := e.CreateAccount(dir.to, 0)

			forward, err := e.ExecuteExchange(context.Background(), &Movement{Amount: 100, Source: src, Destination: dst})
			require.NoError(t, err)
			reverse, err := e.ExecuteExchange(context.Background(), &Movement{Amount: 100, Source: src, Destination: dst, Reverse: true})
			require.NoError(t, err)

			// received amount shrinks and required input grows as commission rises
			assert.LessOrEqual(t, forward, lastForward, "%v->%v commission %v", dir.from, dir.to, c)
			assert.GreaterOrEqual(t, reverse, lastReverse, "%v->%v commission %v", dir.from, dir.to, c)
			lastForward, lastReverse = forward, reverse
		}
	}
}

func TestExchange_ResolvePair(t *testing.T) {
	e := NewExchange("Binance", []domain.Pair{{Base: domain.EUR, Counter: domain.USDT}}, 0.005, &mockRates{})

	p, err := e.ResolvePair(domain.USDT, domain.EUR)
	require.NoError(t, err)
	assert.Equal(t, domain.Pair{Base: domain.EUR, Counter: domain.USDT}, p)

	p, err = e.ResolvePair(domain.EUR, domain.USDT)
	require.NoError(t, err)
	assert.Equal(t, domain.Pair{Base: domain.EUR, Counter: domain.USDT}, p)

	_, err = e.ResolvePair(domain.BTC, domain.EUR)
	var pairErr *domain.UnsupportedPairError
	require.True(t, errors.As(err, &pairErr))
	assert.Equal(t, "Binance", pairErr.Institution)
}

func TestUnsupportedPair_EveryVariant(t *testing.T) {
	rates := &mockRates{quotes: map[domain.Pair]domain.Quote{btcArs: {Bid: 1, Ask: 1}}}
	institutions := []Institution{
		NewWallet("Banco Galicia ARG"),
		NewExchange("Ripio", []domain.Pair{btcArs}, 0.01, rates),
	}
	for _, inst := range institutions {
		t.Run(inst.Name(), func(t *testing.T) {
			src := inst.CreateAccount(domain.EUR, 0)
			dst := inst.CreateAccount(domain.BTC, 0)

			_, err := inst.ExecuteExchange(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst})

			var pairErr *domain.UnsupportedPairError
			require.True(t, errors.As(err, &pairErr))
			assert.Equal(t, inst.Name(), pairErr.Institution)
			assert.Equal(t, domain.EUR, pairErr.From)
			assert.Equal(t, domain.BTC, pairErr.To)
			assert.Equal(t, 0.0, src.Balance())
		})
	}
	assert.Equal(t, 0, rates.calls, "no quote fetched for an unsupported pair")
}

func TestExchange_RateUnavailable(t *testing.T) {
	t.Run("not yet fetched", func(t *testing.T) {
		e := NewExchange("Ripio", []domain.Pair{btcArs}, 0, &mockRates{})
		_, err := e.Rate(domain.ASK, btcArs)
		var rateErr *domain.RateUnavailableError
		require.True(t, errors.As(err, &rateErr))
		assert.Equal(t, domain.ASK, rateErr.Side)
	})

	t.Run("provider error", func(t *testing.T) {
		cause := errors.New("ticker down")
		e := NewExchange("Ripio", []domain.Pair{btcArs}, 0, &mockRates{err: cause})
		src := e.CreateAccount(domain.ARS, 0)
		dst := e.CreateAccount(domain.BTC, 0)

		_, err := e.ExecuteExchange(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst})

		var rateErr *domain.RateUnavailableError
		require.True(t, errors.As(err, &rateErr))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, btcArs, rateErr.Pair)
		assert.Equal(t, 0.0, src.Balance())
	})

	t.Run("zero ask", func(t *testing.T) {
		rates := &mockRates{quotes: map[domain.Pair]domain.Quote{btcArs: {Bid: 90, Ask: 0}}}
		e := NewExchange("Ripio", []domain.Pair{btcArs}, 0, rates)
		src := e.CreateAccount(domain.ARS, 0)
		dst := e.CreateAccount(domain.BTC, 0)

		_, err := e.ExecuteExchange(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst})

		var rateErr *domain.RateUnavailableError
		require.True(t, errors.As(err, &rateErr))
		assert.Equal(t, domain.ASK, rateErr.Side)
	})

	t.Run("no provider", func(t *testing.T) {
		e := NewExchange("Ripio", []domain.Pair{btcArs}, 0, nil)
		src := e.CreateAccount(domain.ARS, 0)
		dst := e.CreateAccount(domain.BTC, 0)

		_, err := e.ExecuteExchange(context.Background(), &Movement{Amount: 1, Source: src, Destination: dst})

		var rateErr *domain.RateUnavailableError
		assert.True(t, errors.As(err, &rateErr))
	})
}

func TestExchange_BookOverwrittenOnEachFetch(t *testing.T) {
	rates := &mockRates{quotes: map[domain.Pair]domain.Quote{btcArs: {Bid: 90, Ask: 100}}}
	e := NewExchange("Ripio", []domain.Pair{btcArs}, 0, rates)
	src := e.CreateAccount(domain.ARS, 0)
	dst := e.CreateAccount(domain.BTC, 0)
	m := &Movement{Amount: 1000, Source: src, Destination: dst}

	got, err := e.ExecuteExchange(context.Background(), m)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-12)

	rates.quotes[btcArs] = domain.Quote{Bid: 180, Ask: 200}
	got, err = e.ExecuteExchange(context.Background(), m)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)

	rate, err := e.Rate(domain.ASK, btcArs)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangeRate{Side: domain.ASK, From: domain.BTC, To: domain.ARS, Rate: 200}, rate)
	assert.Equal(t, 2, rates.calls)
}

func TestExchange_TransfersLikeAWallet(t *testing.T) {
	e := NewExchange("Binance", []domain.Pair{{Base: domain.BTC, Counter: domain.EUR}}, 0.005, &mockRates{},
		WithFixedFees(map[domain.Currency]float64{domain.EUR: 0.8}))
	src := e.CreateAccount(domain.EUR, 0)
	bank := NewWallet("Rabobank NL").CreateAccount(domain.EUR, 0)

	got, err := e.ExecuteTransfer(context.Background(), &Movement{Amount: 100, Source: src, Destination: bank})

	require.NoError(t, err)
	assert.InDelta(t, 99.2, got, 1e-12)
	assert.InDelta(t, 99.2, bank.Balance(), 1e-12)
}
