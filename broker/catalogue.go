package broker

import (
	"github.com/go-kit/log"

	"go-transfer-route/domain"
	"go-transfer-route/ledger"
)

const (
	BancoGalicia  ID = "Banco Galicia ARG"
	Rabobank      ID = "Rabobank NL"
	LetsBit       ID = "Let's Bit"
	Ripio         ID = "Ripio"
	MyEtherWallet ID = "MyEtherWallet"
	Bitvavo       ID = "Bitvavo"
	Binance       ID = "Binance"
)

// Definition the fee and market model of one institution
type Definition struct {
	ID ID

	// Convertible exchanges between Pairs; otherwise a wallet
	Convertible bool
	Pairs       []domain.Pair
	Commission  float64

	// FixedFees flat withdrawal fees, checked before network fees
	FixedFees map[domain.Currency]float64

	// NetworkFees charge crypto transfers the network fee
	NetworkFees bool
}

// Factory builds the institution described by d
func (d Definition) Factory() Factory {
	return func(deps Deps) ledger.Institution {
		opts := []ledger.Option{
			ledger.WithLogger(log.With(deps.Logger, "institution", string(d.ID))),
		}
		if len(d.FixedFees) > 0 {
			opts = append(opts, ledger.WithFixedFees(d.FixedFees))
		}
		if d.NetworkFees && deps.Fees != nil {
			opts = append(opts, ledger.WithNetworkFees(deps.Fees))
		}
		if !d.Convertible {
			return ledger.NewWallet(string(d.ID), opts...)
		}
		return ledger.NewExchange(string(d.ID), d.Pairs, d.Commission, deps.Rates[d.ID], opts...)
	}
}

// Catalogue the built-in institutions
var Catalogue = []Definition{
	{ID: BancoGalicia},
	{ID: Rabobank},
	{ID: MyEtherWallet, NetworkFees: true},
	{
		ID:          Ripio,
		Convertible: true,
		Pairs: []domain.Pair{
			{Base: domain.BTC, Counter: domain.ARS},
			{Base: domain.DAI, Counter: domain.ARS},
		},
		Commission:  0.01,
		NetworkFees: true,
	},
	{
		// network fees are already part of Let's Bit's withdrawal fees
		ID:          LetsBit,
		Convertible: true,
		Pairs: []domain.Pair{
			{Base: domain.BTC, Counter: domain.ARS},
			{Base: domain.DAI, Counter: domain.ARS},
			{Base: domain.USDT, Counter: domain.ARS},
			{Base: domain.PAX, Counter: domain.ARS},
		},
		FixedFees: map[domain.Currency]float64{
			domain.DAI:  5.0,
			domain.BTC:  0.00025,
			domain.USDT: 5.0,
			domain.PAX:  5.0,
		},
	},
	{
		ID:          Bitvavo,
		Convertible: true,
		Pairs: []domain.Pair{
			{Base: domain.BTC, Counter: domain.EUR},
			{Base: domain.DAI, Counter: domain.EUR},
			{Base: domain.USDT, Counter: domain.EUR},
		},
		Commission:  0.0025,
		NetworkFees: true,
	},
	{
		ID:          Binance,
		Convertible: true,
		Pairs: []domain.Pair{
			{Base: domain.BTC, Counter: domain.EUR},
			{Base: domain.EUR, Counter: domain.USDT},
			{Base: domain.DAI, Counter: domain.USDT},
		},
		Commission:  0.005,
		FixedFees:   map[domain.Currency]float64{domain.EUR: 0.8},
		NetworkFees: true,
	},
}

// Default a registry holding the Catalogue
func Default() *Registry {
	r := NewRegistry()
	for _, d := range Catalogue {
		// catalogue IDs are unique
		_ = r.Register(d.ID, d.Factory())
	}
	return r
}

// Lookup the catalogue definition for id
func Lookup(id ID) (Definition, bool) {
	for _, d := range Catalogue {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
