package tags

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/adboard-api/internal/adquery"
	"github.com/rajivgeraev/adboard-api/internal/apperrors"
	"github.com/rajivgeraev/adboard-api/internal/db"
	"github.com/rajivgeraev/adboard-api/internal/models"
)

// TagService представляет сервис для работы с тегами
type TagService struct {
	db *pgxpool.Pool
}

// NewTagService создает новый экземпляр TagService
func NewTagService(pool *pgxpool.Pool) *TagService {
	return &TagService{db: pool}
}

func scanTag(row pgx.Row) (models.Tag, error) {
	var tag models.Tag
	err := row.Scan(&tag.ID, &tag.Name, &tag.Slug)
	return tag, err
}

// CreateTag создает новый тег
func (s *TagService) CreateTag(c fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название и slug обязательны"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 OR slug = $2)",
		req.Name, req.Slug).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки тега: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при создании тега"})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Тег с таким названием или slug уже существует"})
	}

	tag, err := scanTag(s.db.QueryRow(ctx,
		"INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		req.Name, req.Slug))
	if err != nil {
		log.Printf("Ошибка создания тега: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Тег с таким названием или slug уже существует"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании тега"})
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTag возвращает тег по ID
func (s *TagService) GetTag(c fiber.Ctx) error {
	tagID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID тега"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tag, err := scanTag(s.db.QueryRow(ctx, "SELECT id, name, slug FROM tags WHERE id = $1", tagID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Тег не найден"})
		}
		log.Printf("Ошибка получения тега: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения тега"})
	}

	return c.JSON(tag)
}

// GetTags возвращает список тегов
func (s *TagService) GetTags(c fiber.Ctx) error {
	offset := 0
	if v := c.Query("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр skip должен быть неотрицательным числом"})
		}
		offset = parsed
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр limit должен быть числом от 1 до 100"})
		}
		limit = parsed
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	rows, err := s.db.Query(ctx,
		"SELECT id, name, slug FROM tags ORDER BY name ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса тегов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения тегов"})
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			log.Printf("Ошибка сканирования тега: %v", err)
			continue
		}
		result = append(result, tag)
	}

	return c.JSON(result)
}

// UpdateTag обновляет тег: только переданные поля
func (s *TagService) UpdateTag(c fiber.Ctx) error {
	tagID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID тега"})
	}

	var req struct {
		Name *string `json:"name"`
		Slug *string `json:"slug"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	b := &adquery.Binder{}
	var setClauses []string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название не может быть пустым"})
		}
		setClauses = append(setClauses, "name = "+b.Bind(name))
	}
	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Slug не может быть пустым"})
		}
		setClauses = append(setClauses, "slug = "+b.Bind(slug))
	}

	if len(setClauses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нет полей для обновления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	query := fmt.Sprintf("UPDATE tags SET %s WHERE id = %s RETURNING id, name, slug",
		strings.Join(setClauses, ", "), b.Bind(tagID))

	tag, err := scanTag(s.db.QueryRow(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Тег не найден"})
		}
		log.Printf("Ошибка обновления тега: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Тег с таким названием или slug уже существует"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении тега"})
	}

	return c.JSON(tag)
}

// DeleteTag удаляет тег вместе со связями с объявлениями
func (s *TagService) DeleteTag(c fiber.Ctx) error {
	tagID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID тега"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при удалении тега"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM ad_tags WHERE tag_id = $1", tagID); err != nil {
		log.Printf("Ошибка удаления связей тега: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при удалении тега"})
	}

	result, err := tx.Exec(ctx, "DELETE FROM tags WHERE id = $1", tagID)
	if err != nil {
		log.Printf("Ошибка удаления тега: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при удалении тега"})
	}
	if result.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Тег не найден"})
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при удалении тега"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
