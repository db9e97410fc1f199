package categories

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

// CategoryService представляет сервис для работы с категориями
type CategoryService struct {
	db *pgxpool.Pool
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(pool *pgxpool.Pool) *CategoryService {
	return &CategoryService{db: pool}
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.IconURL, &cat.Description)
	return cat, err
}

// CreateCategory создает новую категорию
func (s *CategoryService) CreateCategory(c fiber.Ctx) error {
	var req struct {
		Name        string  `json:"name"`
		Slug        string  `json:"slug"`
		IconURL     *string `json:"icon_url"`
		Description *string `json:"description"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if req.Name == "" || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название и slug обязательны"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var exists int
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM categories WHERE name = $1 OR slug = $2", req.Name, req.Slug).Scan(&exists); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Категория с таким названием или slug уже существует"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Ошибка проверки категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	cat, err := scanCategory(s.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, icon_url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, icon_url, description
	`, req.Name, req.Slug, req.IconURL, req.Description))

	if err != nil {
		log.Printf("Ошибка создания категории: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Категория уже существует"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании категории"})
	}

	return c.Status(fiber.StatusCreated).JSON(cat)
}

// GetCategory возвращает категорию по ID
func (s *CategoryService) GetCategory(c fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	cat, err := scanCategory(s.db.QueryRow(ctx,
		"SELECT id, name, slug, icon_url, description FROM categories WHERE id = $1", categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
		}
		log.Printf("Ошибка получения категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категории"})
	}

	return c.JSON(cat)
}

// GetCategories возвращает список категорий
func (s *CategoryService) GetCategories(c fiber.Ctx) error {
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

	rows, err := s.db.Query(ctx, `
		SELECT id, name, slug, icon_url, description
		FROM categories
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категорий"})
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			log.Printf("Ошибка сканирования категории: %v", err)
			continue
		}
		result = append(result, cat)
	}

	return c.JSON(result)
}

// UpdateCategory обновляет категорию: только переданные поля
func (s *CategoryService) UpdateCategory(c fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	var req struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		IconURL     *string `json:"icon_url"`
		Description *string `json:"description"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	b := &adquery.Binder{}
	var setClauses []string

	if req.Name != nil {
		setClauses = append(setClauses, "name = "+b.Bind(*req.Name))
	}
	if req.Slug != nil {
		setClauses = append(setClauses, "slug = "+b.Bind(*req.Slug))
	}
	if req.IconURL != nil {
		setClauses = append(setClauses, "icon_url = "+b.Bind(*req.IconURL))
	}
	if req.Description != nil {
		setClauses = append(setClauses, "description = "+b.Bind(*req.Description))
	}

	if len(setClauses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нет полей для обновления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	query := fmt.Sprintf(
		"UPDATE categories SET %s WHERE id = %s RETURNING id, name, slug, icon_url, description",
		strings.Join(setClauses, ", "), b.Bind(categoryID))

	cat, err := scanCategory(s.db.QueryRow(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
		}
		log.Printf("Ошибка обновления категории: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Название или slug уже заняты"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении категории"})
	}

	return c.JSON(cat)
}

// DeleteCategory удаляет категорию
func (s *CategoryService) DeleteCategory(c fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		log.Printf("Ошибка удаления категории: %v", err)
		if apperrors.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Категория используется объявлениями"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при удалении категории"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
