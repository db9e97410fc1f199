package ads

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/adboard-api/internal/adquery"
	"github.com/rajivgeraev/adboard-api/internal/apperrors"
	"github.com/rajivgeraev/adboard-api/internal/db"
	"github.com/rajivgeraev/adboard-api/internal/models"
)

// AdService представляет сервис для работы с объявлениями
type AdService struct {
	db *pgxpool.Pool
}

// NewAdService создает новый экземпляр AdService
func NewAdService(pool *pgxpool.Pool) *AdService {
	return &AdService{db: pool}
}

// validCurrencies — допустимые валюты объявления
var validCurrencies = map[string]bool{"RUB": true, "USD": true, "EUR": true}

// GetAds возвращает список объявлений с фильтрацией и поиском
func (s *AdService) GetAds(c fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	query, args := adquery.ListQuery(filter)

	ctx, cancel := db.QueryContext()
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявлений"})
	}
	defer rows.Close()

	result := make([]models.AdOut, 0)
	for rows.Next() {
		row, err := adquery.ScanRow(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		result = append(result, adquery.Project(row))
	}
	if err := rows.Err(); err != nil {
		log.Printf("Ошибка чтения объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявлений"})
	}

	return c.JSON(result)
}

// GetAd возвращает объявление по ID со вложенными сущностями
func (s *AdService) GetAd(c fiber.Ctx) error {
	adUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	row, err := adquery.ScanRow(s.db.QueryRow(ctx, adquery.GetByIDQuery(), adUUID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	// Счетчик просмотров; ошибка не мешает отдать объявление
	if _, err := s.db.Exec(ctx, "INSERT INTO views (ad_id, user_id) VALUES ($1, $2)", adUUID.String(), nil); err != nil {
		log.Printf("Ошибка записи просмотра: %v", err)
	}

	return c.JSON(adquery.Project(row))
}

// GetAdStatistics возвращает полную статистику по объявлению
func (s *AdService) GetAdStatistics(c fiber.Ctx) error {
	adUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var st models.AdStatistics
	err = s.db.QueryRow(ctx, `
		SELECT
		    ad_id, title, price, currency, created_at, moderation_status, is_active,
		    views_count, total_views, unique_viewers, mobile_views, pc_views,
		    total_messages, unique_senders, unread_messages,
		    favorites_count,
		    total_reports, pending_reports, resolved_reports, rejected_reports,
		    category_name, city, owner_username, owner_is_banned
		FROM ad_full_statistics
		WHERE ad_id = $1
	`, adUUID.String()).Scan(
		&st.AdID, &st.Title, &st.Price, &st.Currency, &st.CreatedAt, &st.ModerationStatus, &st.IsActive,
		&st.ViewsCount, &st.TotalViews, &st.UniqueViewers, &st.MobileViews, &st.PCViews,
		&st.TotalMessages, &st.UniqueSenders, &st.UnreadMessages,
		&st.FavoritesCount,
		&st.TotalReports, &st.PendingReports, &st.ResolvedReports, &st.RejectedReports,
		&st.CategoryName, &st.City, &st.OwnerUsername, &st.OwnerIsBanned,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Статистика для объявления не найдена"})
		}
		log.Printf("Ошибка при получении статистики объявления %s: %v", adUUID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка при получении статистики объявления"})
	}

	return c.JSON(st)
}

// adRequest — тело запроса создания или обновления объявления
type adRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	CategoryID       int     `json:"category_id"`
	LocationID       int     `json:"location_id"`
	ModerationStatus string  `json:"moderation_status"`
	IsActive         *bool   `json:"is_active"`
	ImageURLs        *string `json:"image_urls"`
	TagIDs           []int   `json:"tag_ids"`
}

// CreateAd обрабатывает создание нового объявления
func (s *AdService) CreateAd(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var req adRequest
	if err := c.Bind().Body(&req); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if err := validateAdRequest(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	// Одиночное создание проверяет ссылки по одной — в отличие от
	// батчевой загрузки, где проверки идут по множествам
	var exists int
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM users WHERE id = $1", userUUID.String()).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка проверки пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM categories WHERE id = $1", req.CategoryID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
		}
		log.Printf("Ошибка проверки категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM locations WHERE id = $1", req.LocationID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Локация не найдена"})
		}
		log.Printf("Ошибка проверки локации: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// Начинаем транзакцию: объявление и его теги создаются атомарно
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	var adID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO ads (
		    user_id, category_id, location_id, title, description,
		    price, currency, moderation_status, is_active, image_urls
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, userUUID.String(), req.CategoryID, req.LocationID, req.Title, req.Description,
		req.Price, req.Currency, req.ModerationStatus, isActive, req.ImageURLs).Scan(&adID)

	if err != nil {
		log.Printf("Ошибка вставки объявления: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Объявление уже существует"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании объявления"})
	}

	for _, tagID := range req.TagIDs {
		_, err = tx.Exec(ctx,
			"INSERT INTO ad_tags (ad_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			adID.String(), tagID)
		if err != nil {
			log.Printf("Ошибка привязки тега %d: %v", tagID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании объявления"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	out, err := s.fetchFullAd(adID)
	if err != nil {
		log.Printf("Ошибка получения созданного объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAd обновляет объявление: только переданные поля
func (s *AdService) UpdateAd(c fiber.Ctx) error {
	adUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	var req struct {
		Title            *string  `json:"title"`
		Description      *string  `json:"description"`
		Price            *float64 `json:"price"`
		Currency         *string  `json:"currency"`
		CategoryID       *int     `json:"category_id"`
		LocationID       *int     `json:"location_id"`
		ModerationStatus *string  `json:"moderation_status"`
		IsActive         *bool    `json:"is_active"`
		ImageURLs        *string  `json:"image_urls"`
		TagIDs           []int    `json:"tag_ids"`
	}
	if err := c.Bind().Body(&req); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var exists int
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM ads WHERE id = $1", adUUID.String()).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка запроса объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	if req.CategoryID != nil {
		if err := s.db.QueryRow(ctx, "SELECT 1 FROM categories WHERE id = $1", *req.CategoryID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
			}
			log.Printf("Ошибка проверки категории: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
		}
	}
	if req.LocationID != nil {
		if err := s.db.QueryRow(ctx, "SELECT 1 FROM locations WHERE id = $1", *req.LocationID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Локация не найдена"})
			}
			log.Printf("Ошибка проверки локации: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
		}
	}

	// Динамический список SET через общий Binder
	b := &adquery.Binder{}
	var setClauses []string

	if req.Title != nil {
		setClauses = append(setClauses, "title = "+b.Bind(*req.Title))
	}
	if req.Description != nil {
		setClauses = append(setClauses, "description = "+b.Bind(*req.Description))
	}
	if req.Price != nil {
		setClauses = append(setClauses, "price = "+b.Bind(*req.Price))
	}
	if req.Currency != nil {
		if !validCurrencies[*req.Currency] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимая валюта"})
		}
		setClauses = append(setClauses, "currency = "+b.Bind(*req.Currency))
	}
	if req.CategoryID != nil {
		setClauses = append(setClauses, "category_id = "+b.Bind(*req.CategoryID))
	}
	if req.LocationID != nil {
		setClauses = append(setClauses, "location_id = "+b.Bind(*req.LocationID))
	}
	if req.ModerationStatus != nil {
		if !adquery.ModerationStatuses[*req.ModerationStatus] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус модерации"})
		}
		setClauses = append(setClauses, "moderation_status = "+b.Bind(*req.ModerationStatus))
	}
	if req.IsActive != nil {
		setClauses = append(setClauses, "is_active = "+b.Bind(*req.IsActive))
	}
	if req.ImageURLs != nil {
		setClauses = append(setClauses, "image_urls = "+b.Bind(*req.ImageURLs))
	}

	if len(setClauses) == 0 && req.TagIDs == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нет полей для обновления"})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	if len(setClauses) > 0 {
		query := fmt.Sprintf("UPDATE ads SET %s WHERE id = %s",
			strings.Join(setClauses, ", "), b.Bind(adUUID.String()))
		if _, err := tx.Exec(ctx, query, b.Args()...); err != nil {
			log.Printf("Ошибка обновления объявления: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении объявления"})
		}
	}

	// Переданный список тегов заменяет прежний целиком
	if req.TagIDs != nil {
		if _, err := tx.Exec(ctx, "DELETE FROM ad_tags WHERE ad_id = $1", adUUID.String()); err != nil {
			log.Printf("Ошибка удаления тегов: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении объявления"})
		}
		for _, tagID := range req.TagIDs {
			_, err := tx.Exec(ctx,
				"INSERT INTO ad_tags (ad_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				adUUID.String(), tagID)
			if err != nil {
				log.Printf("Ошибка привязки тега %d: %v", tagID, err)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении объявления"})
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	out, err := s.fetchFullAd(adUUID)
	if err != nil {
		log.Printf("Ошибка получения обновленного объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	return c.JSON(out)
}

// DeleteAd удаляет объявление
func (s *AdService) DeleteAd(c fiber.Ctx) error {
	adUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM ads WHERE id = $1", adUUID.String())
	if err != nil {
		log.Printf("Ошибка удаления объявления: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при удалении объявления"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// fetchFullAd читает объявление со вложенными сущностями
func (s *AdService) fetchFullAd(adID uuid.UUID) (models.AdOut, error) {
	ctx, cancel := db.QueryContext()
	defer cancel()

	row, err := adquery.ScanRow(s.db.QueryRow(ctx, adquery.GetByIDQuery(), adID.String()))
	if err != nil {
		return models.AdOut{}, err
	}
	return adquery.Project(row), nil
}

// validateAdRequest проверяет тело запроса создания объявления
func validateAdRequest(req *adRequest) error {
	title := strings.TrimSpace(req.Title)
	if len([]rune(title)) < 10 || len([]rune(title)) > 255 {
		return apperrors.NewValidation("Название должно быть от 10 до 255 символов")
	}
	if len([]rune(strings.TrimSpace(req.Description))) < 50 {
		return apperrors.NewValidation("Описание должно быть не короче 50 символов")
	}
	if req.Price <= 0 {
		return apperrors.NewValidation("Цена должна быть больше нуля")
	}
	if req.Currency == "" {
		req.Currency = "RUB"
	}
	if !validCurrencies[req.Currency] {
		return apperrors.NewValidation("Недопустимая валюта")
	}
	if req.ModerationStatus == "" {
		req.ModerationStatus = "PENDING"
	}
	if !adquery.ModerationStatuses[req.ModerationStatus] {
		return apperrors.NewValidation("Недопустимый статус модерации")
	}
	return nil
}

// parseFilter извлекает критерии листингового запроса из query-параметров
func parseFilter(c fiber.Ctx) (adquery.Filter, error) {
	f := adquery.Filter{
		IsActive:         true,
		ModerationStatus: "APPROVED",
		Sort:             adquery.SortNewest,
		Limit:            adquery.DefaultLimit,
	}

	if v := c.Query("skip"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return f, apperrors.NewValidation("Параметр skip должен быть неотрицательным числом")
		}
		f.Offset = offset
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > adquery.MaxLimit {
			return f, apperrors.NewValidation("Параметр limit должен быть числом от 1 до 100")
		}
		f.Limit = limit
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, apperrors.NewValidation("Неверный формат category_id")
		}
		f.CategoryID = &id
	}

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return f, apperrors.NewValidation("Параметр min_price должен быть неотрицательным числом")
		}
		f.MinPrice = &price
	}

	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return f, apperrors.NewValidation("Параметр max_price должен быть неотрицательным числом")
		}
		f.MaxPrice = &price
	}

	if v := c.Query("min_views"); v != "" {
		views, err := strconv.Atoi(v)
		if err != nil || views < 0 {
			return f, apperrors.NewValidation("Параметр min_views должен быть неотрицательным числом")
		}
		f.MinViews = &views
	}

	if v := c.Query("owner_id"); v != "" {
		ownerID, err := uuid.Parse(v)
		if err != nil {
			return f, apperrors.NewValidation("Неверный формат owner_id")
		}
		f.OwnerID = &ownerID
	}

	if v := c.Query("created_after"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperrors.NewValidation("Неверный формат created_after")
		}
		f.CreatedAfter = &ts
	}

	if v := c.Query("created_before"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, apperrors.NewValidation("Неверный формат created_before")
		}
		f.CreatedBefore = &ts
	}

	if v := c.Query("has_images"); v != "" {
		hasImages, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperrors.NewValidation("Параметр has_images должен быть true или false")
		}
		f.HasImages = &hasImages
	}

	// Список тегов передается через запятую: tag_ids=10,11,12
	if v := c.Query("tag_ids"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return f, apperrors.NewValidation("Неверный формат tag_ids")
			}
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	if v := c.Query("sort_by"); v != "" {
		sort, err := adquery.ParseSortKey(v)
		if err != nil {
			return f, apperrors.NewValidation("Недопустимый ключ сортировки")
		}
		f.Sort = sort
	}

	if v := c.Query("moderation_status"); v != "" {
		if !adquery.ModerationStatuses[v] {
			return f, apperrors.NewValidation("Недопустимый статус модерации")
		}
		f.ModerationStatus = v
	}

	if v := c.Query("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperrors.NewValidation("Параметр is_active должен быть true или false")
		}
		f.IsActive = isActive
	}

	f.City = c.Query("city")
	f.Search = c.Query("search")

	return f, nil
}
