package users

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupRoutes настраивает маршруты для API пользователей
func SetupRoutes(app *fiber.App, pool *pgxpool.Pool) {
	s := NewUserService(pool)

	api := app.Group("/api/v1/users")

	api.Post("/", s.CreateUser)
	api.Get("/", s.GetUsers)
	api.Get("/:id", s.GetUser)
	api.Put("/:id", s.UpdateUser)
	api.Delete("/:id", s.DeleteUser)
}
