package tags

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для тегов
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	service := NewTagService(pool)

	group := app.Group("/api/v1/tags")

	group.Get("/", service.GetTags)
	group.Get("/:id", service.GetTag)
	group.Post("/", service.CreateTag)
	group.Put("/:id", service.UpdateTag)
	group.Delete("/:id", service.DeleteTag)
}
