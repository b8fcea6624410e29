package relation

import (
	"context"
	"errors"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RelationService is the single toggle service behind favorites, cart
	// entries and author subscriptions: Add resolves the target, inserts the
	// edge and returns a representation of the target; Remove deletes it.
	RelationService interface {
		AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeSummary, error)
		RemoveFavorite(ctx context.Context, userID, recipeID string) error
		AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeSummary, error)
		RemoveFromCart(ctx context.Context, userID, recipeID string) error
		Subscribe(ctx context.Context, userID, authorID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error)
	}

	relationService struct {
		relationRepository RelationRepository
		recipeRepository   recipe.RecipeRepository
		userRepository     user.UserRepository
	}
)

func NewRelationService(
	relationRepository RelationRepository,
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
) RelationService {
	return &relationService{
		relationRepository: relationRepository,
		recipeRepository:   recipeRepository,
		userRepository:     userRepository,
	}
}

func (s *relationService) AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeSummary, error) {
	target, userUUID, err := s.resolveRecipeTarget(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}

	row := entities.Favorite{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  target.ID,
		CreatedAt: time.Now(),
	}
	if err := s.relationRepository.AddFavorite(ctx, &row); err != nil {
		return domain.RecipeSummary{}, err
	}

	return recipe.ToSummary(target), nil
}

func (s *relationService) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	if _, _, err := s.resolveRecipeTarget(ctx, userID, recipeID); err != nil {
		return err
	}
	return s.relationRepository.RemoveFavorite(ctx, userID, recipeID)
}

func (s *relationService) AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeSummary, error) {
	target, userUUID, err := s.resolveRecipeTarget(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}

	row := entities.ShoppingCart{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  target.ID,
		CreatedAt: time.Now(),
	}
	if err := s.relationRepository.AddCartEntry(ctx, &row); err != nil {
		return domain.RecipeSummary{}, err
	}

	return recipe.ToSummary(target), nil
}

func (s *relationService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	if _, _, err := s.resolveRecipeTarget(ctx, userID, recipeID); err != nil {
		return err
	}
	return s.relationRepository.RemoveCartEntry(ctx, userID, recipeID)
}

func (s *relationService) Subscribe(ctx context.Context, userID, authorID string) (domain.SubscriptionResponse, error) {
	if userID == authorID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscription
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}

	row := entities.Subscription{
		ID:        uuid.New(),
		UserID:    userUUID,
		AuthorID:  author.ID,
		CreatedAt: time.Now(),
	}
	if err := s.relationRepository.AddSubscription(ctx, &row); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscriptionResponse(ctx, author)
}

func (s *relationService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.relationRepository.RemoveSubscription(ctx, userID, authorID)
}

func (s *relationService) GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error) {
	subscriptions, err := s.relationRepository.GetSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if sub.Author == nil {
			continue
		}
		res, err := s.toSubscriptionResponse(ctx, sub.Author)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

// resolveRecipeTarget loads the toggle target; an unknown recipe id is a not
// found, never a silent no-op.
func (s *relationService) resolveRecipeTarget(ctx context.Context, userID, recipeID string) (*entities.Recipe, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrParseUUID
	}

	target, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, domain.ErrRecipeNotFound
		}
		return nil, uuid.Nil, err
	}

	return target, userUUID, nil
}

func (s *relationService) toSubscriptionResponse(ctx context.Context, author *entities.User) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, recipe.ToSummary(r))
	}

	return domain.SubscriptionResponse{
		UserResponse: user.ToResponse(author, true),
		Recipes:      summaries,
		RecipesCount: int(count),
	}, nil
}
