package adquery

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/adboard-api/internal/models"
)

// Row — плоская строка листингового запроса: колонки объявления, колонки
// связанных сущностей и агрегированный JSON-массив тегов
type Row struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	CategoryID       int
	LocationID       int
	Title            string
	Description      string
	Price            float64
	Currency         string
	CreatedAt        time.Time
	ModerationStatus string
	IsActive         bool
	ViewsCount       int
	ImageURLs        *string

	CategoryName string
	CategorySlug string

	City     string
	District *string
	Street   *string
	Building *string

	OwnerUsername string
	OwnerAvatar   *string

	TagsJSON []byte
}

// scanner покрывает pgx.Row и pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

// ScanRow читает одну строку листингового запроса в Row.
// Порядок колонок соответствует adBaseSelect.
func ScanRow(src scanner) (Row, error) {
	var r Row
	err := src.Scan(
		&r.ID, &r.UserID, &r.CategoryID, &r.LocationID, &r.Title, &r.Description,
		&r.Price, &r.Currency, &r.CreatedAt, &r.ModerationStatus, &r.IsActive,
		&r.ViewsCount, &r.ImageURLs,
		&r.CategoryName, &r.CategorySlug,
		&r.City, &r.District, &r.Street, &r.Building,
		&r.OwnerUsername, &r.OwnerAvatar,
		&r.TagsJSON,
	)
	return r, err
}

// Project преобразует плоскую строку в объявление с вложенными объектами.
// Вложенные сущности собираются только из колонок строки, без дополнительных
// обращений к базе. Некорректный агрегат тегов дает пустой список, а не ошибку.
func Project(r Row) models.AdOut {
	out := models.AdOut{
		Ad: models.Ad{
			ID:               r.ID,
			UserID:           r.UserID,
			CategoryID:       r.CategoryID,
			LocationID:       r.LocationID,
			Title:            r.Title,
			Description:      r.Description,
			Price:            r.Price,
			Currency:         r.Currency,
			CreatedAt:        r.CreatedAt,
			ModerationStatus: r.ModerationStatus,
			IsActive:         r.IsActive,
			ViewsCount:       r.ViewsCount,
			ImageURLs:        r.ImageURLs,
		},
		Category: models.CategorySummary{
			ID:   r.CategoryID,
			Name: r.CategoryName,
			Slug: r.CategorySlug,
		},
		Location: models.LocationSummary{
			ID:       r.LocationID,
			City:     r.City,
			District: r.District,
			Street:   r.Street,
			Building: r.Building,
		},
		Owner: models.OwnerSummary{
			ID:        r.UserID,
			Username:  r.OwnerUsername,
			AvatarURL: r.OwnerAvatar,
		},
		Tags: []models.TagSummary{},
	}

	if len(r.TagsJSON) > 0 {
		var tags []models.TagSummary
		if err := json.Unmarshal(r.TagsJSON, &tags); err == nil && tags != nil {
			out.Tags = tags
		}
	}

	return out
}
