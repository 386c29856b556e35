package route

import (
	"context"
	"fmt"

	"go-transfer-route/ledger"
)

// Kind of transaction linking two hops
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindExchange Kind = "exchange"
)

// Transaction a single hop's unit of work. It holds no arithmetic: the
// source account's institution executes it. Amount and Reverse on the
// Movement are set by the Route before every execution.
type Transaction interface {
	Execute(ctx context.Context) (float64, error)
	Movement() *ledger.Movement
	Kind() Kind
	String() string
}

// NewTransaction links src to dst: same currency is a Transfer, otherwise an Exchange.
func NewTransaction(src, dst *ledger.Account) Transaction {
	tx := transaction{
		movement:    ledger.Movement{Source: src, Destination: dst},
		institution: src.Institution(),
	}
	if src.Currency == dst.Currency {
		return &Transfer{tx}
	}
	return &Exchange{tx}
}

type transaction struct {
	movement ledger.Movement

	// institution executes the movement, fixed to the source account's institution
	institution ledger.Institution
}

func (t *transaction) Movement() *ledger.Movement {
	return &t.movement
}

func (t *transaction) String() string {
	return fmt.Sprintf("%v > %v", t.movement.Source, t.movement.Destination)
}

// Transfer same-currency movement, net of the institution's transfer fee
type Transfer struct {
	transaction
}

func (t *Transfer) Kind() Kind {
	return KindTransfer
}

func (t *Transfer) Execute(ctx context.Context) (float64, error) {
	return t.institution.ExecuteTransfer(ctx, &t.movement)
}

// Exchange cross-currency conversion at the source account's institution
type Exchange struct {
	transaction
}

func (e *Exchange) Kind() Kind {
	return KindExchange
}

func (e *Exchange) Execute(ctx context.Context) (float64, error) {
	return e.institution.ExecuteExchange(ctx, &e.movement)
}
