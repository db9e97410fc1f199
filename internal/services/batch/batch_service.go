package batch

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/adboard-api/internal/apperrors"
)

// batchTimeout — таймаут на всю операцию массовой загрузки
const batchTimeout = 30 * time.Second

// BatchService представляет сервис массовой загрузки объявлений
type BatchService struct {
	validator *Validator
	inserter  *Inserter
}

// NewBatchService создает новый экземпляр BatchService
func NewBatchService(pool *pgxpool.Pool) *BatchService {
	return &BatchService{
		validator: NewValidator(pool),
		inserter:  NewInserter(pool),
	}
}

// BatchCreateAds обрабатывает массовую загрузку объявлений:
// сначала проверка всех ссылок батча, затем одна транзакция вставки
func (s *BatchService) BatchCreateAds(c fiber.Ctx) error {
	var ads []AdImport
	if err := c.Bind().Body(&ads); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if len(ads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Список объявлений пуст"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Все проверки ссылок завершаются до начала записи
	report, err := s.validator.Validate(ctx, ads)
	if err != nil {
		log.Printf("Ошибка проверки ссылок батча: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки данных"})
	}

	if !report.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Ссылки на несуществующие записи",
			"missing": report,
		})
	}

	result, err := s.inserter.Insert(ctx, ads)
	if err != nil {
		log.Printf("Ошибка массовой вставки: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Дубликат записи в батче"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при массовой вставке"})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
