package transfer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-kit/log"
	"golang.org/x/sync/errgroup"

	"go-transfer-route/broker"
	"go-transfer-route/domain"
	"go-transfer-route/ledger"
	"go-transfer-route/route"
)

// Hop one account-holding step of a route
type Hop struct {
	Institution broker.ID       `json:"institution" mapstructure:"institution"`
	Currency    domain.Currency `json:"currency" mapstructure:"currency"`
}

// Request a declarative route and the amount known at one of its ends
type Request struct {
	Direction domain.Direction `json:"direction" mapstructure:"direction"`
	Amount    float64          `json:"amount" mapstructure:"amount"`
	Hops      []Hop            `json:"hops" mapstructure:"hops"`
}

// Result the amount at the other end of the route and the effective rate,
// expressed as source currency per destination currency
type Result struct {
	// Route 1-based position of the request within a batch
	Route            int              `json:"route,omitempty"`
	Direction        domain.Direction `json:"direction"`
	SrcCurrency      domain.Currency  `json:"src_currency"`
	DstCurrency      domain.Currency  `json:"dst_currency"`
	Amount           float64          `json:"amount"`
	ReciprocalAmount float64          `json:"reciprocal_amount"`
	EffectiveRate    float64          `json:"effective_rate"`
}

// Service processes route requests
type Service interface {
	Process(ctx context.Context, req Request) (Result, error)
	ProcessAll(ctx context.Context, reqs []Request) ([]Result, error)
	Compare(ctx context.Context, reqs []Request) ([]Result, error)
}

type service struct {
	registry *broker.Registry
	deps     broker.Deps

	// concurrency bounds ProcessAll, <= 0 for no bound
	concurrency int

	logger log.Logger
}

// NewService constructs a valid Service. Every request is evaluated on its
// own freshly built institutions and accounts.
func NewService(registry *broker.Registry, deps broker.Deps, concurrency int) Service {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &service{
		registry:    registry,
		deps:        deps,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process builds the route, checks every exchange pair is supported and
// propagates the amount in the requested direction.
func (s *service) Process(ctx context.Context, req Request) (Result, error) {
	direction, err := domain.ParseDirection(string(req.Direction))
	if err != nil {
		return Result{}, err
	}
	if req.Amount <= 0 || math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		return Result{}, fmt.Errorf("invalid amount: %v", req.Amount)
	}

	r, err := s.build(req.Hops)
	if err != nil {
		return Result{}, err
	}
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	nodes := r.Nodes()
	result := Result{
		Direction:   direction,
		SrcCurrency: nodes[0].Currency,
		DstCurrency: nodes[len(nodes)-1].Currency,
		Amount:      req.Amount,
	}

	if direction == domain.SEND {
		result.ReciprocalAmount, err = r.Send(ctx, req.Amount)
		if err != nil {
			return Result{}, err
		}
		if result.ReciprocalAmount <= 0 {
			return Result{}, fmt.Errorf("fees exceed amount: %v %v arrives", result.ReciprocalAmount, result.DstCurrency)
		}
		result.EffectiveRate = req.Amount / result.ReciprocalAmount
	} else {
		result.ReciprocalAmount, err = r.Receive(ctx, req.Amount)
		if err != nil {
			return Result{}, err
		}
		result.EffectiveRate = result.ReciprocalAmount / req.Amount
	}
	return result, nil
}

// build threads one account per hop into a route. Hops at the same
// institution share one instance within the route.
func (s *service) build(hops []Hop) (*route.Route, error) {
	switch len(hops) {
	case 0:
		return nil, &domain.InvalidRouteError{Reason: "no hops"}
	case 1:
		return nil, &domain.InvalidRouteError{Reason: "need at least 2 hops, have 1"}
	}

	institutions := map[broker.ID]ledger.Institution{}
	r := route.New(log.With(s.logger, "component", "route"))
	for i, hop := range hops {
		currency, err := domain.ParseCurrency(string(hop.Currency))
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i+1, err)
		}
		inst, ok := institutions[hop.Institution]
		if !ok {
			inst, err = s.registry.New(hop.Institution, s.deps)
			if err != nil {
				return nil, fmt.Errorf("hop %d: %w", i+1, err)
			}
			institutions[hop.Institution] = inst
		}
		r.AddNode(inst.CreateAccount(currency, 0))
	}
	return r, nil
}

// ProcessAll evaluates independent routes concurrently. Results keep the
// order of reqs; the first failure fails the batch.
func (s *service) ProcessAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := s.Process(gctx, req)
			if err != nil {
				return fmt.Errorf("route %d: %w", i+1, err)
			}
			result.Route = i + 1
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compare evaluates alternative routes between the same two currencies and
// ranks them cheapest first: the lowest effective rate, in source currency
// per destination currency, wins. Ties keep request order.
func (s *service) Compare(ctx context.Context, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, &domain.InvalidRouteError{Reason: "nothing to compare"}
	}
	results, err := s.ProcessAll(ctx, reqs)
	if err != nil {
		return nil, err
	}
	for _, r := range results[1:] {
		if r.SrcCurrency != results[0].SrcCurrency || r.DstCurrency != results[0].DstCurrency {
			return nil, fmt.Errorf("route %d: %v -> %v is not comparable with %v -> %v",
				r.Route, r.SrcCurrency, r.DstCurrency, results[0].SrcCurrency, results[0].DstCurrency)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveRate < results[j].EffectiveRate
	})
	return results, nil
}
