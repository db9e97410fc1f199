package adquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_Defaults(t *testing.T) {
	f := defaultFilter()
	query, args := ListQuery(f)

	// Два обязательных условия и пагинация — больше ничего
	assert.Contains(t, query, "WHERE a.is_active = $1 AND a.moderation_status = $2")
	assert.Contains(t, query, "GROUP BY a.id, c.id, l.id, u.id")
	assert.Contains(t, query, "ORDER BY a.created_at DESC")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{true, "APPROVED", DefaultLimit, 0}, args)
}

// LIMIT и OFFSET — всегда два последних параметра
func TestListQuery_PaginationLast(t *testing.T) {
	f := defaultFilter()
	minPrice := 10.0
	f.MinPrice = &minPrice
	f.TagIDs = []int{1, 2}
	f.Limit = 50
	f.Offset = 100

	query, args := ListQuery(f)

	require.Len(t, args, 7)
	assert.Contains(t, query, "LIMIT $6 OFFSET $7")
	assert.Equal(t, 50, args[5])
	assert.Equal(t, 100, args[6])
}

func TestListQuery_SortKeys(t *testing.T) {
	f := defaultFilter()
	f.Sort = SortPriceAsc
	query, _ := ListQuery(f)
	assert.Contains(t, query, "ORDER BY a.price ASC")

	f.Sort = SortViews
	query, _ = ListQuery(f)
	assert.Contains(t, query, "ORDER BY a.views_count DESC")
}

// Порядок секций: WHERE, GROUP BY, ORDER BY, LIMIT
func TestListQuery_SectionOrder(t *testing.T) {
	query, _ := ListQuery(defaultFilter())

	whereIdx := strings.Index(query, "WHERE")
	groupIdx := strings.Index(query, "GROUP BY")
	orderIdx := strings.Index(query, "ORDER BY")
	limitIdx := strings.Index(query, "LIMIT")

	require.True(t, whereIdx > 0)
	assert.Less(t, whereIdx, groupIdx)
	assert.Less(t, groupIdx, orderIdx)
	assert.Less(t, orderIdx, limitIdx)
}

// Агрегат тегов сворачивается в JSON-массив с пустым массивом по умолчанию
func TestListQuery_TagAggregate(t *testing.T) {
	query, _ := ListQuery(defaultFilter())

	assert.Contains(t, query, "array_agg(DISTINCT jsonb_build_object('id', t.id, 'name', t.name, 'slug', t.slug))")
	assert.Contains(t, query, "'[]'::json")
}

func TestAssemble_NoConds(t *testing.T) {
	b := &Binder{}
	query := Assemble("SELECT id FROM tags", "", nil, SortNewest, b, 10, 0)

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "GROUP BY")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{10, 0}, b.Args())
}

func TestGetByIDQuery(t *testing.T) {
	query := GetByIDQuery()

	assert.Contains(t, query, "WHERE a.id = $1::uuid")
	assert.Contains(t, query, "GROUP BY a.id, c.id, l.id, u.id")
}
