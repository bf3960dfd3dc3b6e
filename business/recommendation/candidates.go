package recommendation

import (
	"context"
	"fmt"
	"shopSense/domain"
)

// loadCandidates fetches the bounded candidate pool, excluding the product
// being viewed and anything already in the cart. The fixed pool size keeps
// prompt size and completion cost predictable.
func (s *Service) loadCandidates(ctx context.Context, rc domain.RecommendContext) ([]domain.Product, error) {
	excludeIDs := make([]uint64, 0, len(rc.CartProductIDs)+1)
	if rc.CurrentProductID != 0 {
		excludeIDs = append(excludeIDs, rc.CurrentProductID)
	}
	for _, id := range rc.CartProductIDs {
		if id != 0 {
			excludeIDs = append(excludeIDs, id)
		}
	}

	candidates, err := s.productRepo.FindCandidates(ctx, excludeIDs, candidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	return candidates, nil
}
