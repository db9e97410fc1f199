package batch

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты массовой загрузки
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	s := NewBatchService(pool)

	api := app.Group("/api/v1/batch-import")

	// Маршрут для массовой загрузки объявлений
	api.Post("/ads", s.BatchCreateAds)
}
