package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	IsVerified bool      `json:"is_verified"`
	IsBanned   bool      `json:"is_banned"`
	AvatarURL  *string   `json:"avatar_url"`
}

// Category представляет категорию объявлений
type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	IconURL     *string `json:"icon_url"`
	Description *string `json:"description"`
}

// Location представляет адрес, к которому привязываются объявления
type Location struct {
	ID         int      `json:"id"`
	City       string   `json:"city"`
	District   *string  `json:"district"`
	Street     string   `json:"street"`
	Building   string   `json:"building"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	PostalCode *string  `json:"postal_code"`
}

// Tag представляет тег объявления
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FavoriteAd — объявление в списке избранного пользователя
type FavoriteAd struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	ViewsCount  int             `json:"views_count"`
	ImageURLs   *string         `json:"image_urls"`
	Category    CategorySummary `json:"category"`
	Location    LocationSummary `json:"location"`
	Owner       OwnerSummary    `json:"owner"`
}
