package routes

import (
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	CatalogHandler  handlers.CatalogHandler
	RecipeHandler   handlers.RecipeHandler
	RelationHandler handlers.RelationHandler
	ShoppingHandler handlers.ShoppingHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Users()
	c.Catalog()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) Users() {
	users := c.App.Group("/api/v1/users")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	{
		users.Post("/register", c.UserHandler.Register)
		users.Post("/login", c.UserHandler.Login)
		users.Get("/verify", c.UserHandler.VerifyEmail)
		users.Get("/me", auth, c.UserHandler.Me)
		users.Patch("/update", auth, c.UserHandler.UpdateUser)
		users.Get("/subscriptions", auth, c.RelationHandler.GetSubscriptions)
		users.Get("/:id", optional, c.UserHandler.GetUser)
		users.Post("/:id/subscribe", auth, c.RelationHandler.Subscribe)
		users.Delete("/:id/subscribe", auth, c.RelationHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/v1/tags")
	tags.Get("", c.CatalogHandler.GetTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/v1/ingredients")
	ingredients.Get("", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	{
		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
		// registered before "/:id" so it is not swallowed by the param route
		recipes.Get("/download_shopping_cart", auth, c.ShoppingHandler.DownloadShoppingCart)
		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipe)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", auth, c.RelationHandler.AddFavorite)
		recipes.Delete("/:id/favorite", auth, c.RelationHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", auth, c.RelationHandler.AddToCart)
		recipes.Delete("/:id/shopping_cart", auth, c.RelationHandler.RemoveFromCart)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
