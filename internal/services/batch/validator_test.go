package batch

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectReferences(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()

	ads := []AdImport{
		{UserID: userA, CategoryID: 2, LocationID: 5, TagIDs: []int{10, 11}},
		{UserID: userB, CategoryID: 1, LocationID: 5, TagIDs: []int{11}},
		{UserID: userA, CategoryID: 2, LocationID: 4},
	}

	refs := collectReferences(ads)

	// Множества без дубликатов, отсортированы
	assert.Len(t, refs.userIDs, 2)
	assert.Equal(t, []int{1, 2}, refs.categoryIDs)
	assert.Equal(t, []int{4, 5}, refs.locationIDs)
	assert.Equal(t, []int{10, 11}, refs.tagIDs)
}

func TestCollectReferences_NoTags(t *testing.T) {
	refs := collectReferences([]AdImport{
		{UserID: uuid.New(), CategoryID: 1, LocationID: 1},
	})
	assert.Empty(t, refs.tagIDs)
}

// Недостающий пользователь попадает в отчет под своим видом и только под ним,
// независимо от порядка записей в батче
func TestValidator_MissingUser(t *testing.T) {
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()

	db := &fakeDB{
		existingUsers:      []uuid.UUID{userA, userC},
		existingCategories: []int{1, 2},
		existingLocations:  []int{5},
		existingTags:       nil,
	}

	ads := []AdImport{
		{UserID: userC, CategoryID: 2, LocationID: 5},
		{UserID: userB, CategoryID: 1, LocationID: 5},
		{UserID: userA, CategoryID: 1, LocationID: 5},
	}

	report, err := NewValidator(db).Validate(context.Background(), ads)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{userB}, report.MissingUsers)
	assert.Empty(t, report.MissingCategories)
	assert.Empty(t, report.MissingLocations)
	assert.Empty(t, report.MissingTags)
	assert.False(t, report.Empty())
}

// Отчет перечисляет все недостающие идентификаторы каждого вида, а не первый
func TestValidator_AllMissingReported(t *testing.T) {
	user := uuid.New()

	db := &fakeDB{
		existingUsers:      []uuid.UUID{user},
		existingCategories: []int{1},
		existingLocations:  []int{5},
		existingTags:       []int{10},
	}

	ads := []AdImport{
		{UserID: user, CategoryID: 1, LocationID: 5, TagIDs: []int{10, 20, 30}},
		{UserID: user, CategoryID: 9, LocationID: 5},
	}

	report, err := NewValidator(db).Validate(context.Background(), ads)
	require.NoError(t, err)

	assert.Equal(t, []int{9}, report.MissingCategories)
	assert.Equal(t, []int{20, 30}, report.MissingTags)
	assert.Empty(t, report.MissingUsers)
	assert.Empty(t, report.MissingLocations)
}

func TestValidator_EmptyReport(t *testing.T) {
	user := uuid.New()

	db := &fakeDB{
		existingUsers:      []uuid.UUID{user},
		existingCategories: []int{1},
		existingLocations:  []int{5},
		existingTags:       []int{10},
	}

	report, err := NewValidator(db).Validate(context.Background(), []AdImport{
		{UserID: user, CategoryID: 1, LocationID: 5, TagIDs: []int{10}},
	})

	require.NoError(t, err)
	assert.True(t, report.Empty())
}

// Батч без тегов не порождает запрос по тегам
func TestValidator_SkipsEmptyTagSet(t *testing.T) {
	user := uuid.New()

	db := &fakeDB{
		existingUsers:      []uuid.UUID{user},
		existingCategories: []int{1},
		existingLocations:  []int{5},
	}

	_, err := NewValidator(db).Validate(context.Background(), []AdImport{
		{UserID: user, CategoryID: 1, LocationID: 5},
	})
	require.NoError(t, err)

	// Три вида ссылок присутствуют всегда, теги — нет
	assert.Len(t, db.queries, 3)
	for _, q := range db.queries {
		assert.NotContains(t, q, "FROM tags")
	}
}
