package favorites

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/adboard-api/internal/db"
	"github.com/rajivgeraev/adboard-api/internal/models"
)

// FavoriteService представляет сервис для работы с избранным
type FavoriteService struct {
	db *pgxpool.Pool
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(pool *pgxpool.Pool) *FavoriteService {
	return &FavoriteService{db: pool}
}

const favoritesListQuery = `
	SELECT
		a.id, a.title, a.description, a.price, a.currency, a.created_at,
		a.views_count, a.image_urls,
		c.id, c.name, c.slug,
		l.id, l.city, l.district, l.street, l.building,
		u.id, u.username, u.avatar_url
	FROM favorites f
	JOIN ads a ON a.id = f.ad_id
	JOIN categories c ON c.id = a.category_id
	JOIN locations l ON l.id = a.location_id
	JOIN users u ON u.id = a.user_id
	WHERE f.user_id = $1
		AND a.is_active = true
		AND a.moderation_status = 'APPROVED'
	ORDER BY f.added_at DESC
	LIMIT $2 OFFSET $3`

// AddToFavorites добавляет объявление в избранное пользователя
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	adID, err := uuid.Parse(c.Query("ad_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var adExists bool
	err = s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM ads WHERE id = $1 AND is_active = true AND moderation_status = 'APPROVED')",
		adID).Scan(&adExists)
	if err != nil {
		log.Printf("Ошибка проверки объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при добавлении в избранное"})
	}
	if !adExists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено, неактивно или не прошло модерацию"})
	}

	var userExists bool
	err = s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID).Scan(&userExists)
	if err != nil {
		log.Printf("Ошибка проверки пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при добавлении в избранное"})
	}
	if !userExists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	var alreadyFavorited bool
	err = s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND ad_id = $2)",
		userID, adID).Scan(&alreadyFavorited)
	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при добавлении в избранное"})
	}
	if alreadyFavorited {
		return c.JSON(fiber.Map{"message": "Объявление уже в избранном", "ad_id": adID})
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO favorites (user_id, ad_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, ad_id) DO NOTHING
	`, userID, adID)
	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при добавлении в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Объявление добавлено в избранное", "ad_id": adID})
}

// RemoveFromFavorites удаляет объявление из избранного пользователя
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	adID, err := uuid.Parse(c.Params("ad_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	result, err := s.db.Exec(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND ad_id = $2", userID, adID)
	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при удалении из избранного"})
	}
	if result.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено в избранном"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserFavorites возвращает список избранных объявлений пользователя
func (s *FavoriteService) GetUserFavorites(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	offset := 0
	if v := c.Query("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр skip должен быть неотрицательным числом"})
		}
		offset = parsed
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр limit должен быть числом от 1 до 100"})
		}
		limit = parsed
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	rows, err := s.db.Query(ctx, favoritesListQuery, userID, limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при получении списка избранного"})
	}
	defer rows.Close()

	result := make([]models.FavoriteAd, 0)
	for rows.Next() {
		var fav models.FavoriteAd
		err := rows.Scan(
			&fav.ID, &fav.Title, &fav.Description, &fav.Price, &fav.Currency, &fav.CreatedAt,
			&fav.ViewsCount, &fav.ImageURLs,
			&fav.Category.ID, &fav.Category.Name, &fav.Category.Slug,
			&fav.Location.ID, &fav.Location.City, &fav.Location.District, &fav.Location.Street, &fav.Location.Building,
			&fav.Owner.ID, &fav.Owner.Username, &fav.Owner.AvatarURL,
		)
		if err != nil {
			log.Printf("Ошибка сканирования избранного: %v", err)
			continue
		}
		fav.Description = TruncateDescription(fav.Description)
		result = append(result, fav)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Ошибка чтения избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при получении списка избранного"})
	}

	return c.JSON(result)
}

// TruncateDescription обрезает описание до 150 символов по границе слова
func TruncateDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= 150 {
		return description
	}
	head := string(runes[:150])
	cutPos := strings.LastIndex(head, " ")
	if cutPos == -1 || cutPos < 100 {
		return strings.TrimSpace(head) + "..."
	}
	return strings.TrimSpace(head[:cutPos]) + "..."
}
