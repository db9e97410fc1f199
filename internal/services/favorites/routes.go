package favorites

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для избранного
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	service := NewFavoriteService(pool)

	group := app.Group("/api/v1/favorites")

	group.Get("/", service.GetUserFavorites)
	group.Post("/", service.AddToFavorites)
	group.Delete("/:ad_id", service.RemoveFromFavorites)
}
