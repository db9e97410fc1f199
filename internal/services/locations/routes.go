package locations

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для локаций
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	service := NewLocationService(pool)

	group := app.Group("/api/v1/locations")

	group.Get("/", service.GetLocations)
	group.Get("/:id", service.GetLocation)
	group.Post("/", service.CreateLocation)
	group.Put("/:id", service.UpdateLocation)
	group.Delete("/:id", service.DeleteLocation)
}
