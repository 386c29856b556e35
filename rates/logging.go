package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"go-transfer-route/domain"
)

// loggingService decorates a rates.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Quote(ctx context.Context, pair domain.Pair) (quote domain.Quote, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "quote",
			"pair", pair,
			"bid", quote.Bid,
			"ask", quote.Ask,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Quote(ctx, pair)
}
