package categories

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для API категорий
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	s := NewCategoryService(pool)

	api := app.Group("/api/v1/categories")

	api.Post("/", s.CreateCategory)
	api.Get("/", s.GetCategories)
	api.Get("/:id", s.GetCategory)
	api.Put("/:id", s.UpdateCategory)
	api.Delete("/:id", s.DeleteCategory)
}
