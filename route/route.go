package route

import (
	"context"
	"fmt"

	"github.com/go-kit/log"

	"go-transfer-route/domain"
	"go-transfer-route/ledger"
)

// Route an ordered chain of accounts and the transactions linking each
// account to the next.
//
// Send and Receive mutate every account balance along the chain. A failure
// mid-chain leaves the hops already executed applied; run Validate first to
// catch unsupported pairs without touching any balance.
type Route struct {
	nodes        []*ledger.Account
	transactions []Transaction

	logger log.Logger
}

// New constructs an empty Route
func New(logger log.Logger) *Route {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Route{logger: logger}
}

// AddNode appends account to the chain, linking it to the previous node.
func (r *Route) AddNode(account *ledger.Account) {
	r.nodes = append(r.nodes, account)
	if n := len(r.nodes); n > 1 {
		r.transactions = append(r.transactions, NewTransaction(r.nodes[n-2], r.nodes[n-1]))
	}
}

func (r *Route) Nodes() []*ledger.Account {
	return r.nodes
}

func (r *Route) Transactions() []Transaction {
	return r.transactions
}

// Validate checks the chain can be propagated: at least two nodes and every
// exchange hop on a pair its institution supports. It performs no lookups
// and mutates nothing.
func (r *Route) Validate() error {
	if err := r.checkLength(); err != nil {
		return err
	}
	for i, tx := range r.transactions {
		if tx.Kind() != KindExchange {
			continue
		}
		m := tx.Movement()
		if _, err := m.Source.Institution().ResolvePair(m.Source.Currency, m.Destination.Currency); err != nil {
			return fmt.Errorf("hop %d [%v]: %w", i+1, tx, err)
		}
	}
	return nil
}

func (r *Route) checkLength() error {
	if len(r.nodes) < 2 {
		return &domain.InvalidRouteError{Reason: fmt.Sprintf("need at least 2 nodes, have %d", len(r.nodes))}
	}
	return nil
}

// Send pushes amount into the first account and returns what arrives at the
// last one. Each hop's result is the next hop's amount.
func (r *Route) Send(ctx context.Context, amount float64) (float64, error) {
	if err := r.checkLength(); err != nil {
		return 0, err
	}
	for _, tx := range r.transactions {
		tx.Movement().Reverse = false
	}
	r.transactions[0].Movement().Amount = amount

	var result float64
	for i, tx := range r.transactions {
		out, err := r.execute(ctx, i, tx)
		if err != nil {
			return 0, fmt.Errorf("send: %w", err)
		}
		if i+1 < len(r.transactions) {
			r.transactions[i+1].Movement().Amount = out
		}
		result = out
	}
	return result, nil
}

// Receive works back from amount landing in the last account and returns
// what must be sent from the first one.
func (r *Route) Receive(ctx context.Context, amount float64) (float64, error) {
	if err := r.checkLength(); err != nil {
		return 0, err
	}
	for _, tx := range r.transactions {
		tx.Movement().Reverse = true
	}
	last := len(r.transactions) - 1
	r.transactions[last].Movement().Amount = amount

	var result float64
	for i := last; i >= 0; i-- {
		tx := r.transactions[i]
		in, err := r.execute(ctx, i, tx)
		if err != nil {
			return 0, fmt.Errorf("receive: %w", err)
		}
		if i > 0 {
			r.transactions[i-1].Movement().Amount = in
		}
		result = in
	}
	return result, nil
}

func (r *Route) execute(ctx context.Context, i int, tx Transaction) (float64, error) {
	amount := tx.Movement().Amount
	out, err := tx.Execute(ctx)
	if err != nil {
		return 0, fmt.Errorf("hop %d [%v]: %w", i+1, tx, err)
	}
	r.logger.Log("msg", "executed hop", "hop", i+1, "tx", tx.String(), "kind", tx.Kind(),
		"reverse", tx.Movement().Reverse, "amount", amount, "result", out)
	return out, nil
}
