package fees

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"go-transfer-route/domain"
)

// loggingService decorates a fees.Service with logging
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

func (s *loggingService) NetworkFee(ctx context.Context, currency domain.Currency) (fee float64, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "network_fee",
			"currency", currency,
			"fee", fee,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.NetworkFee(ctx, currency)
}
