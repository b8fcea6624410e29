package shopping

import (
	"context"

	"foodgram-backend/domain"
)

type (
	ShoppingService interface {
		Aggregate(ctx context.Context, userID string) ([]domain.ShoppingItem, error)
		DownloadShoppingList(ctx context.Context, userID string) ([]byte, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		renderer           *ShoppingListRenderer
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository, renderer *ShoppingListRenderer) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		renderer:           renderer,
	}
}

// Aggregate folds every ingredient line across the user's cart recipes into
// one summed entry per ingredient NAME. The unit of the first occurrence
// wins; two ingredients seeded under the same name with different units are
// merged into that first unit. Output order is first-encounter order of
// distinct names, not alphabetical.
func (s *shoppingService) Aggregate(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	lines, err := s.shoppingRepository.GetCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(lines))
	items := make([]domain.ShoppingItem, 0, len(lines))
	for _, line := range lines {
		if at, ok := index[line.Name]; ok {
			items[at].Amount += line.Amount
			continue
		}
		index[line.Name] = len(items)
		items = append(items, domain.ShoppingItem{
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return items, nil
}

// DownloadShoppingList renders the aggregated cart as a PDF document. An
// empty cart still yields a valid document with only the title.
func (s *shoppingService) DownloadShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(items)
}
