package domain

import (
	"fmt"
	"strings"
)

// Currency a currency code
type Currency string

const (
	ARS  Currency = "ARS"
	EUR  Currency = "EUR"
	USD  Currency = "USD"
	BTC  Currency = "BTC"
	ETH  Currency = "ETH"
	DAI  Currency = "DAI"
	USDT Currency = "USDT"
	PAX  Currency = "PAX"
)

var currencies = map[Currency]bool{
	ARS: false, EUR: false, USD: false,
	BTC: true, ETH: true, DAI: true, USDT: true, PAX: true,
}

// ParseCurrency returns the known currency for a code, ignoring case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencies[c]; !ok {
		return "", fmt.Errorf("unknown currency: %q", s)
	}
	return c, nil
}

// IsCrypto reports whether the currency moves over a blockchain network.
func (c Currency) IsCrypto() bool {
	return currencies[c]
}

// Pair a market as stored by an institution. Base is priced in Counter.
type Pair struct {
	Base    Currency
	Counter Currency
}

func (p Pair) Reverse() Pair {
	return Pair{Base: p.Counter, Counter: p.Base}
}

func (p Pair) String() string {
	return fmt.Sprintf("%v/%v", p.Base, p.Counter)
}

// PriceType side of a quote
type PriceType string

const (
	// BID rate at which the institution buys the base currency
	BID PriceType = "BID"
	// ASK rate at which the institution sells the base currency
	ASK PriceType = "ASK"
)

// ExchangeRate a directional quote, 1 From ~ Rate To
type ExchangeRate struct {
	Side PriceType
	From Currency
	To   Currency
	Rate float64
}

func (r ExchangeRate) String() string {
	return fmt.Sprintf("[%v] 1 %v ~ %v %v", r.Side, r.From, r.To, r.Rate)
}

// Quote bid and ask prices of a pair's base currency, in counter currency units
type Quote struct {
	Bid float64
	Ask float64
}

// Direction which end of a route the known amount belongs to
type Direction string

const (
	SEND    Direction = "send"
	RECEIVE Direction = "receive"
)

// ParseDirection returns the direction named by s, ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case SEND, RECEIVE:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction: %q", s)
}
