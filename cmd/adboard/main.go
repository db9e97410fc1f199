package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rajivgeraev/adboard-api/internal/config"
	"github.com/rajivgeraev/adboard-api/internal/db"
	"github.com/rajivgeraev/adboard-api/internal/services/ads"
	"github.com/rajivgeraev/adboard-api/internal/services/batch"
	"github.com/rajivgeraev/adboard-api/internal/services/categories"
	"github.com/rajivgeraev/adboard-api/internal/services/favorites"
	"github.com/rajivgeraev/adboard-api/internal/services/locations"
	"github.com/rajivgeraev/adboard-api/internal/services/tags"
	"github.com/rajivgeraev/adboard-api/internal/services/users"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем пул соединений с базой данных
	pool, err := db.NewPool(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer pool.Close()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Adboard API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Регистрируем маршруты
	ads.SetupRoutes(app, pool)
	batch.SetupRoutes(app, pool)
	users.SetupRoutes(app, pool)
	categories.SetupRoutes(app, pool)
	locations.SetupRoutes(app, pool)
	tags.SetupRoutes(app, pool)
	favorites.SetupRoutes(app, pool)

	// Запускаем сервер
	log.Printf("✅ Adboard API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
