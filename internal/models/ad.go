package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad представляет объявление в системе
type Ad struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CategoryID       int       `json:"category_id"`
	LocationID       int       `json:"location_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	ModerationStatus string    `json:"moderation_status"`
	IsActive         bool      `json:"is_active"`
	ViewsCount       int       `json:"views_count"`
	ImageURLs        *string   `json:"image_urls"`
}

// AdOut — объявление с вложенными категорией, локацией, владельцем и тегами
type AdOut struct {
	Ad
	Category CategorySummary `json:"category"`
	Location LocationSummary `json:"location"`
	Owner    OwnerSummary    `json:"owner"`
	Tags     []TagSummary    `json:"tags"`
}

// CategorySummary — краткая информация о категории внутри объявления
type CategorySummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LocationSummary — краткая информация о локации внутри объявления
type LocationSummary struct {
	ID       int     `json:"id"`
	City     string  `json:"city"`
	District *string `json:"district"`
	Street   *string `json:"street"`
	Building *string `json:"building"`
}

// OwnerSummary — краткая информация о владельце внутри объявления
type OwnerSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
}

// TagSummary — краткая информация о теге внутри объявления
type TagSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AdStatistics — агрегированная статистика по объявлению из представления ad_full_statistics
type AdStatistics struct {
	AdID             uuid.UUID `json:"ad_id"`
	Title            string    `json:"title"`
	Price            float64   `json:"price"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	ModerationStatus string    `json:"moderation_status"`
	IsActive         bool      `json:"is_active"`
	ViewsCount       int       `json:"views_count"`
	TotalViews       int       `json:"total_views"`
	UniqueViewers    int       `json:"unique_viewers"`
	MobileViews      int       `json:"mobile_views"`
	PCViews          int       `json:"pc_views"`
	TotalMessages    int       `json:"total_messages"`
	UniqueSenders    int       `json:"unique_senders"`
	UnreadMessages   int       `json:"unread_messages"`
	FavoritesCount   int       `json:"favorites_count"`
	TotalReports     int       `json:"total_reports"`
	PendingReports   int       `json:"pending_reports"`
	ResolvedReports  int       `json:"resolved_reports"`
	RejectedReports  int       `json:"rejected_reports"`
	CategoryName     string    `json:"category_name"`
	City             string    `json:"city"`
	OwnerUsername    string    `json:"owner_username"`
	OwnerIsBanned    bool      `json:"owner_is_banned"`
}
