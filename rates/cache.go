package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"

	"go-transfer-route/domain"
)

// cachingService decorates a rates.Service with a cache of quotes.
// The cachingService is concurrency safe and will periodically refresh cached values
// until the context it was built with is done.
type cachingService struct {
	// next the service being decorated with a cache
	next Service
	// cache the cache of quotes
	cache map[domain.Pair]domain.Quote

	// updateFrequency how often to refresh cached values
	updateFrequency time.Duration

	// ctx bounds the lifetime of the periodic refreshes
	ctx context.Context

	// lock synchronizes access to cache to make it concurrency safe
	lock sync.RWMutex

	logger log.Logger
}

// NewCachingService returns a new caching Service
func NewCachingService(ctx context.Context, updateFrequency time.Duration, logger log.Logger, s Service) Service {
	return &cachingService{
		next:            s,
		cache:           map[domain.Pair]domain.Quote{},
		updateFrequency: updateFrequency,
		ctx:             ctx,
		logger:          logger,
	}
}

// Quote looks up a quote and caches the result
func (s *cachingService) Quote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	s.lock.RLock()
	quote, ok := s.cache[pair]
	s.lock.RUnlock()

	if ok {
		return quote, nil
	}

	// Concurrent misses on the same pair may each go to the venue; only the
	// first one to store a value schedules the periodic refresh.
	quote, firstTime, err := s.refreshNow(ctx, pair)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("refreshing cache [%v]: %w", pair, err)
	}
	if firstTime {
		s.logger.Log("msg", "scheduling periodic refresh", "pair", pair)
		go s.refreshPeriodically(pair)
	}
	return quote, nil
}

// refreshNow refreshes a cached entry immediately
func (s *cachingService) refreshNow(ctx context.Context, pair domain.Pair) (domain.Quote, bool, error) {
	quote, err := s.next.Quote(ctx, pair)
	if err != nil {
		return domain.Quote{}, false, fmt.Errorf("refresh [%v]: %w", pair, err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.cache[pair]
	s.cache[pair] = quote
	return quote, !ok, nil
}

// refreshPeriodically refreshes a cached entry on a given schedule.
// This is expected to be called from a go-routine for each pair.
func (s *cachingService) refreshPeriodically(pair domain.Pair) {
	for {
		select {
		case <-time.After(s.updateFrequency):
			_, _, err := s.refreshNow(s.ctx, pair)
			if err != nil {
				// Don't return, just log and hope this is a transient error
				s.logger.Log("msg", "periodic refresh failed", "pair", pair, "error", err)
			}
		case <-s.ctx.Done():
			s.logger.Log("msg", "shutting down periodic refresh", "pair", pair)
			s.uncache(pair)
			return
		}
	}
}

// uncache safely removes pair from cachingService
func (s *cachingService) uncache(pair domain.Pair) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.cache, pair)
}
