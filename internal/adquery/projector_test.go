package adquery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	district := "Центральный"
	street := "Ленина"
	building := "10"
	avatar := "https://cdn.example.com/avatar.png"

	return Row{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		CategoryID:       3,
		LocationID:       7,
		Title:            "Продам велосипед",
		Description:      "Почти новый, катался два раза",
		Price:            15000,
		Currency:         "RUB",
		CreatedAt:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ModerationStatus: "APPROVED",
		IsActive:         true,
		ViewsCount:       12,
		CategoryName:     "Спорт",
		CategorySlug:     "sport",
		City:             "Москва",
		District:         &district,
		Street:           &street,
		Building:         &building,
		OwnerUsername:    "ivan",
		OwnerAvatar:      &avatar,
		TagsJSON:         []byte(`[{"id":10,"name":"велосипеды","slug":"bikes"}]`),
	}
}

func TestProject(t *testing.T) {
	r := sampleRow()
	out := Project(r)

	assert.Equal(t, r.ID, out.ID)
	assert.Equal(t, r.Title, out.Title)

	// Вложенные объекты строятся из колонок строки
	assert.Equal(t, r.CategoryID, out.Category.ID)
	assert.Equal(t, "Спорт", out.Category.Name)
	assert.Equal(t, "sport", out.Category.Slug)

	assert.Equal(t, r.LocationID, out.Location.ID)
	assert.Equal(t, "Москва", out.Location.City)
	require.NotNil(t, out.Location.District)
	assert.Equal(t, "Центральный", *out.Location.District)

	assert.Equal(t, r.UserID, out.Owner.ID)
	assert.Equal(t, "ivan", out.Owner.Username)

	require.Len(t, out.Tags, 1)
	assert.Equal(t, 10, out.Tags[0].ID)
	assert.Equal(t, "велосипеды", out.Tags[0].Name)
}

// Пустой агрегат тегов дает пустой список
func TestProject_EmptyTags(t *testing.T) {
	r := sampleRow()
	r.TagsJSON = []byte(`[]`)

	out := Project(r)
	assert.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
}

// Некорректный агрегат тегов дает пустой список, а не панику
func TestProject_MalformedTags(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`{"not":"an array"`),
		[]byte(`null`),
		[]byte(`что угодно`),
		nil,
	} {
		r := sampleRow()
		r.TagsJSON = raw

		out := Project(r)
		assert.NotNil(t, out.Tags)
		assert.Empty(t, out.Tags)
	}
}
