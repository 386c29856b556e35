package transfer

import (
	"context"
	"time"

	"github.com/go-kit/log"
)

// loggingService decorates a transfer.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Process(ctx context.Context, req Request) (result Result, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "process",
			"direction", req.Direction,
			"amount", req.Amount,
			"hops", len(req.Hops),
			"reciprocal_amount", result.ReciprocalAmount,
			"effective_rate", result.EffectiveRate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Process(ctx, req)
}

func (s *loggingService) ProcessAll(ctx context.Context, reqs []Request) (results []Result, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "process_all",
			"routes", len(reqs),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ProcessAll(ctx, reqs)
}

func (s *loggingService) Compare(ctx context.Context, reqs []Request) (results []Result, err error) {
	defer func(begin time.Time) {
		best := 0
		if len(results) > 0 {
			best = results[0].Route
		}
		s.logger.Log(
			"method", "compare",
			"routes", len(reqs),
			"best", best,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Compare(ctx, reqs)
}
