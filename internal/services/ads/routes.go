package ads

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для API объявлений
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	s := NewAdService(pool)

	api := app.Group("/api/v1/ads")

	// Маршрут для получения списка объявлений с фильтрацией и поиском
	api.Get("/", s.GetAds)

	// Маршрут для получения статистики объявления
	api.Get("/:id/statistics", s.GetAdStatistics)

	// Маршрут для получения одного объявления по ID
	api.Get("/:id", s.GetAd)

	// Маршрут для создания объявления
	api.Post("/", s.CreateAd)

	// Маршрут для обновления объявления
	api.Put("/:id", s.UpdateAd)

	// Маршрут для удаления объявления
	api.Delete("/:id", s.DeleteAd)
}
