package rates

import (
	"context"
	"fmt"

	"go-transfer-route/domain"
)

// Static a fixed table of quotes. A pair present only in its reverse order
// is answered with the inverted quote: bid and ask swap sides.
type Static map[domain.Pair]domain.Quote

func (s Static) Quote(_ context.Context, pair domain.Pair) (domain.Quote, error) {
	if q, ok := s[pair]; ok {
		return q, nil
	}
	if q, ok := s[pair.Reverse()]; ok && q.Bid > 0 && q.Ask > 0 {
		return domain.Quote{Bid: 1 / q.Ask, Ask: 1 / q.Bid}, nil
	}
	return domain.Quote{}, fmt.Errorf("no static quote for %v", pair)
}
