package relation

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	RelationRepository interface {
		AddFavorite(ctx context.Context, row *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, recipeID string) error
		AddCartEntry(ctx context.Context, row *entities.ShoppingCart) error
		RemoveCartEntry(ctx context.Context, userID, recipeID string) error
		AddSubscription(ctx context.Context, row *entities.Subscription) error
		RemoveSubscription(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string) ([]*entities.Subscription, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// toggleOn inserts one relation edge. The composite unique index is the
// source of truth: a concurrent duplicate insert surfaces as
// gorm.ErrDuplicatedKey and is mapped to the caller-facing conflict error.
func toggleOn[T any](ctx context.Context, db *gorm.DB, row *T, conflict error) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict
		}
		return err
	}
	return nil
}

// toggleOff deletes one relation edge; zero affected rows means the relation
// never existed.
func toggleOff[T any](ctx context.Context, db *gorm.DB, missing error, query string, args ...any) error {
	res := db.WithContext(ctx).Where(query, args...).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missing
	}
	return nil
}

func (r *relationRepository) AddFavorite(ctx context.Context, row *entities.Favorite) error {
	return toggleOn(ctx, r.db, row, domain.ErrAlreadyFavorited)
}

func (r *relationRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	return toggleOff[entities.Favorite](ctx, r.db, domain.ErrNotFavorited,
		"user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (r *relationRepository) AddCartEntry(ctx context.Context, row *entities.ShoppingCart) error {
	return toggleOn(ctx, r.db, row, domain.ErrAlreadyInCart)
}

func (r *relationRepository) RemoveCartEntry(ctx context.Context, userID, recipeID string) error {
	return toggleOff[entities.ShoppingCart](ctx, r.db, domain.ErrNotInCart,
		"user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (r *relationRepository) AddSubscription(ctx context.Context, row *entities.Subscription) error {
	return toggleOn(ctx, r.db, row, domain.ErrAlreadySubscribed)
}

func (r *relationRepository) RemoveSubscription(ctx context.Context, userID, authorID string) error {
	return toggleOff[entities.Subscription](ctx, r.db, domain.ErrNotSubscribed,
		"user_id = ? AND author_id = ?", userID, authorID)
}

func (r *relationRepository) GetSubscriptions(ctx context.Context, userID string) ([]*entities.Subscription, error) {
	var subscriptions []*entities.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}
