package adquery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFilter() Filter {
	return Filter{
		ModerationStatus: "APPROVED",
		IsActive:         true,
		Sort:             SortNewest,
		Limit:            DefaultLimit,
	}
}

// Фильтр без необязательных критериев дает ровно два обязательных условия
func TestBuildAdPredicates_Defaults(t *testing.T) {
	b := &Binder{}
	conds := BuildAdPredicates(defaultFilter(), b)

	require.Len(t, conds, 2)
	assert.Equal(t, "a.is_active = $1", conds[0])
	assert.Equal(t, "a.moderation_status = $2", conds[1])
	assert.Equal(t, []any{true, "APPROVED"}, b.Args())
}

func TestBuildAdPredicates_Search(t *testing.T) {
	f := defaultFilter()
	f.Search = "велосипед"

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 3)
	assert.Contains(t, conds[2], "a.title % $3")
	assert.Contains(t, conds[2], "a.description % $3")
	assert.Contains(t, conds[2], "t2.name % $3")
	// Один поисковый термин — один параметр
	assert.Equal(t, []any{true, "APPROVED", "велосипед"}, b.Args())
}

// Поиск короче трех значимых символов не добавляет ни условия, ни параметра
func TestBuildAdPredicates_SearchTooShort(t *testing.T) {
	f := defaultFilter()
	f.Search = "ab"

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	assert.Len(t, conds, 2)
	assert.Len(t, b.Args(), 2)
}

func TestBuildAdPredicates_PriceRange(t *testing.T) {
	f := defaultFilter()
	minPrice, maxPrice := 100.0, 5000.0
	f.MinPrice = &minPrice
	f.MaxPrice = &maxPrice

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 4)
	assert.Equal(t, "a.price >= $3::numeric", conds[2])
	assert.Equal(t, "a.price <= $4::numeric", conds[3])
}

// Каждая граница диапазона независима
func TestBuildAdPredicates_OnlyUpperBound(t *testing.T) {
	f := defaultFilter()
	maxPrice := 5000.0
	f.MaxPrice = &maxPrice

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 3)
	assert.Equal(t, "a.price <= $3::numeric", conds[2])
}

// Условие по тегам требует совпадения всех тегов списка, а не любого
func TestBuildAdPredicates_TagsMatchAll(t *testing.T) {
	f := defaultFilter()
	f.TagIDs = []int{10, 11, 12}

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 3)
	assert.Contains(t, conds[2], "tag_id = ANY($3)")
	assert.Contains(t, conds[2], "HAVING COUNT(DISTINCT tag_id) = $4")
	assert.Equal(t, []any{true, "APPROVED", []int{10, 11, 12}, 3}, b.Args())
}

func TestBuildAdPredicates_HasImages(t *testing.T) {
	f := defaultFilter()
	hasImages := true
	f.HasImages = &hasImages

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 3)
	assert.Equal(t, "(a.image_urls IS NOT NULL AND a.image_urls != '' AND a.image_urls != '[]')", conds[2])
	// Флаг не привязывает параметров
	assert.Len(t, b.Args(), 2)

	hasImages = false
	b = &Binder{}
	conds = BuildAdPredicates(f, b)
	assert.Equal(t, "(a.image_urls IS NULL OR a.image_urls = '' OR a.image_urls = '[]')", conds[2])
}

func TestBuildAdPredicates_City(t *testing.T) {
	f := defaultFilter()
	f.City = "  Москва "

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 3)
	assert.Equal(t, "LOWER(l.city) % $3", conds[2])
	assert.Equal(t, "москва", b.Args()[2])
}

// Индексы плейсхолдеров совпадают с позициями значений при любом
// наборе пропущенных критериев
func TestBuildAdPredicates_BinderAlignment(t *testing.T) {
	f := defaultFilter()
	categoryID := 7
	minViews := 50
	ownerID := uuid.New()
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.CategoryID = &categoryID
	f.MinViews = &minViews
	f.OwnerID = &ownerID
	f.CreatedAfter = &after
	f.TagIDs = []int{3}

	b := &Binder{}
	conds := BuildAdPredicates(f, b)

	require.Len(t, conds, 7)
	assert.Equal(t, "a.category_id = $3", conds[2])
	assert.Equal(t, "a.views_count >= $4", conds[3])
	assert.Equal(t, "a.user_id = $5::uuid", conds[4])
	assert.Equal(t, "a.created_at >= $6", conds[5])
	assert.Contains(t, conds[6], "ANY($7)")
	assert.Contains(t, conds[6], "= $8")

	require.Len(t, b.Args(), 8)
	assert.Equal(t, categoryID, b.Args()[2])
	assert.Equal(t, minViews, b.Args()[3])
	assert.Equal(t, ownerID.String(), b.Args()[4])
	assert.Equal(t, after, b.Args()[5])
}
