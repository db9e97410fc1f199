package batch

import (
	"github.com/google/uuid"
)

// AdImport — одно объявление в батче массовой загрузки.
// В отличие от обычного создания, объявление несет все свои внешние ключи.
type AdImport struct {
	UserID           uuid.UUID `json:"user_id"`
	CategoryID       int       `json:"category_id"`
	LocationID       int       `json:"location_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Currency         string    `json:"currency"`
	ModerationStatus string    `json:"moderation_status"`
	IsActive         bool      `json:"is_active"`
	ImageURLs        string    `json:"image_urls"`
	TagIDs           []int     `json:"tag_ids"`
}

// ValidationReport перечисляет недостающие идентификаторы по каждому виду
// ссылок. Пустой отчет означает, что батч можно вставлять.
type ValidationReport struct {
	MissingUsers      []uuid.UUID `json:"missing_users,omitempty"`
	MissingCategories []int       `json:"missing_categories,omitempty"`
	MissingLocations  []int       `json:"missing_locations,omitempty"`
	MissingTags       []int       `json:"missing_tags,omitempty"`
}

// Empty сообщает, что ни один идентификатор не отсутствует
func (r ValidationReport) Empty() bool {
	return len(r.MissingUsers) == 0 &&
		len(r.MissingCategories) == 0 &&
		len(r.MissingLocations) == 0 &&
		len(r.MissingTags) == 0
}

// ImportResult — итог массовой загрузки: идентификаторы созданных
// объявлений в порядке входного списка
type ImportResult struct {
	Success        bool        `json:"success"`
	CreatedCount   int         `json:"created_count"`
	TotalRequested int         `json:"total_requested"`
	AdIDs          []uuid.UUID `json:"ad_ids"`
}
