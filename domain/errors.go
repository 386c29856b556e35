package domain

import "fmt"

// UnsupportedPairError a currency pair the institution has no market for
type UnsupportedPairError struct {
	Institution string
	From        Currency
	To          Currency
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("unsupported pair [%v]: %v/%v", e.Institution, e.From, e.To)
}

// RateUnavailableError no quote could be obtained for a pair
type RateUnavailableError struct {
	Institution string
	Pair        Pair
	Side        PriceType
	Err         error
}

func (e *RateUnavailableError) Error() string {
	msg := fmt.Sprintf("rate unavailable [%v]: %v", e.Institution, e.Pair)
	if e.Side != "" {
		msg += fmt.Sprintf(" %v", e.Side)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RateUnavailableError) Unwrap() error {
	return e.Err
}

// FeeUnavailableError no transfer fee could be obtained for a currency
type FeeUnavailableError struct {
	Institution string
	Currency    Currency
	Err         error
}

func (e *FeeUnavailableError) Error() string {
	msg := fmt.Sprintf("fee unavailable [%v]: %v", e.Institution, e.Currency)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FeeUnavailableError) Unwrap() error {
	return e.Err
}

// InvalidRouteError a route that cannot be propagated
type InvalidRouteError struct {
	Reason string
}

func (e *InvalidRouteError) Error() string {
	return "invalid route: " + e.Reason
}
