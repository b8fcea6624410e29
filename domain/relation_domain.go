package domain

var (
	MessageSuccessAddFavorite    = "recipe added to favorites"
	MessageSuccessRemoveFavorite = "recipe removed from favorites"
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"
	MessageSuccessSubscribe      = "subscribed to author"
	MessageSuccessUnsubscribe    = "unsubscribed from author"

	MessageFailedAddFavorite    = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite = "failed to remove recipe from favorites"
	MessageFailedAddToCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart = "failed to remove recipe from shopping cart"
	MessageFailedSubscribe      = "failed to subscribe to author"
	MessageFailedUnsubscribe    = "failed to unsubscribe from author"
)

// Toggle-relation failures are field-tagged validation errors, matching the
// taxonomy of draft validation: a duplicate edge or a missing edge is a
// business-rule violation on the relation field, not a server fault.
var (
	ErrAlreadyFavorited  = NewFieldError("favorite", "recipe is already in favorites")
	ErrNotFavorited      = NewFieldError("favorite", "recipe is not in favorites")
	ErrAlreadyInCart     = NewFieldError("shopping_cart", "recipe is already in the shopping cart")
	ErrNotInCart         = NewFieldError("shopping_cart", "recipe is not in the shopping cart")
	ErrAlreadySubscribed = NewFieldError("subscription", "already subscribed to this author")
	ErrNotSubscribed     = NewFieldError("subscription", "not subscribed to this author")
	ErrSelfSubscription  = NewFieldError("subscription", "subscribing to yourself is not allowed")
)
