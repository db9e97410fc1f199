package locations

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

// LocationService представляет сервис для работы с локациями
type LocationService struct {
	db *pgxpool.Pool
}

// NewLocationService создает новый экземпляр LocationService
func NewLocationService(pool *pgxpool.Pool) *LocationService {
	return &LocationService{db: pool}
}

const locationColumns = "id, city, district, street, building, latitude, longitude, postal_code"

func scanLocation(row pgx.Row) (models.Location, error) {
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.City, &loc.District, &loc.Street, &loc.Building,
		&loc.Latitude, &loc.Longitude, &loc.PostalCode)
	return loc, err
}

func validateCoordinates(latitude, longitude *float64) error {
	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		return apperrors.NewValidation("Широта должна быть в диапазоне от -90 до 90")
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		return apperrors.NewValidation("Долгота должна быть в диапазоне от -180 до 180")
	}
	return nil
}

// CreateLocation создает новую локацию
func (s *LocationService) CreateLocation(c fiber.Ctx) error {
	var req struct {
		City       string   `json:"city"`
		District   *string  `json:"district"`
		Street     string   `json:"street"`
		Building   string   `json:"building"`
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
		PostalCode *string  `json:"postal_code"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if req.City == "" || req.Street == "" || req.Building == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Город, улица и дом обязательны"})
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	loc, err := scanLocation(s.db.QueryRow(ctx, `
		INSERT INTO locations (city, district, street, building, latitude, longitude, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+locationColumns,
		req.City, req.District, req.Street, req.Building, req.Latitude, req.Longitude, req.PostalCode))

	if err != nil {
		log.Printf("Ошибка создания локации: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании локации"})
	}

	return c.Status(fiber.StatusCreated).JSON(loc)
}

// GetLocation возвращает локацию по ID
func (s *LocationService) GetLocation(c fiber.Ctx) error {
	locationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID локации"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	loc, err := scanLocation(s.db.QueryRow(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE id = $1", locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Локация не найдена"})
		}
		log.Printf("Ошибка получения локации: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения локации"})
	}

	return c.JSON(loc)
}

// GetLocations возвращает список локаций с фильтром по городу
func (s *LocationService) GetLocations(c fiber.Ctx) error {
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

	b := &adquery.Binder{}
	query := "SELECT " + locationColumns + " FROM locations"
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		query += " WHERE LOWER(city) = " + b.Bind(strings.ToLower(city))
	}
	query += fmt.Sprintf(" ORDER BY city ASC, street ASC LIMIT %s OFFSET %s", b.Bind(limit), b.Bind(offset))

	ctx, cancel := db.QueryContext()
	defer cancel()

	rows, err := s.db.Query(ctx, query, b.Args()...)
	if err != nil {
		log.Printf("Ошибка запроса локаций: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения локаций"})
	}
	defer rows.Close()

	result := make([]models.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			log.Printf("Ошибка сканирования локации: %v", err)
			continue
		}
		result = append(result, loc)
	}

	return c.JSON(result)
}

// UpdateLocation обновляет локацию: только переданные поля
func (s *LocationService) UpdateLocation(c fiber.Ctx) error {
	locationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID локации"})
	}

	var req struct {
		City       *string  `json:"city"`
		District   *string  `json:"district"`
		Street     *string  `json:"street"`
		Building   *string  `json:"building"`
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
		PostalCode *string  `json:"postal_code"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	b := &adquery.Binder{}
	var setClauses []string

	if req.City != nil {
		setClauses = append(setClauses, "city = "+b.Bind(*req.City))
	}
	if req.District != nil {
		setClauses = append(setClauses, "district = "+b.Bind(*req.District))
	}
	if req.Street != nil {
		setClauses = append(setClauses, "street = "+b.Bind(*req.Street))
	}
	if req.Building != nil {
		setClauses = append(setClauses, "building = "+b.Bind(*req.Building))
	}
	if req.Latitude != nil {
		setClauses = append(setClauses, "latitude = "+b.Bind(*req.Latitude))
	}
	if req.Longitude != nil {
		setClauses = append(setClauses, "longitude = "+b.Bind(*req.Longitude))
	}
	if req.PostalCode != nil {
		setClauses = append(setClauses, "postal_code = "+b.Bind(*req.PostalCode))
	}

	if len(setClauses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нет полей для обновления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	query := fmt.Sprintf("UPDATE locations SET %s WHERE id = %s RETURNING %s",
		strings.Join(setClauses, ", "), b.Bind(locationID), locationColumns)

	loc, err := scanLocation(s.db.QueryRow(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Локация не найдена"})
		}
		log.Printf("Ошибка обновления локации: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении локации"})
	}

	return c.JSON(loc)
}

// DeleteLocation удаляет локацию
func (s *LocationService) DeleteLocation(c fiber.Ctx) error {
	locationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID локации"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM locations WHERE id = $1", locationID)
	if err != nil {
		log.Printf("Ошибка удаления локации: %v", err)
		if apperrors.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Локация используется объявлениями"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при удалении локации"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Локация не найдена"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
