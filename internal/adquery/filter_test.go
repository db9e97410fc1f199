package adquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"price_asc", "price_desc", "newest", "oldest", "views"} {
		key, err := ParseSortKey(valid)
		assert.NoError(t, err)
		assert.Equal(t, SortKey(valid), key)
	}

	// Неизвестный ключ отклоняется, а не подменяется значением по умолчанию
	_, err := ParseSortKey("bogus")
	assert.Error(t, err)

	_, err = ParseSortKey("")
	assert.Error(t, err)
}

func TestSortKey_Clause(t *testing.T) {
	assert.Equal(t, "ORDER BY a.price ASC", SortPriceAsc.Clause())
	assert.Equal(t, "ORDER BY a.price DESC", SortPriceDesc.Clause())
	assert.Equal(t, "ORDER BY a.created_at DESC", SortNewest.Clause())
	assert.Equal(t, "ORDER BY a.created_at ASC", SortOldest.Clause())
	assert.Equal(t, "ORDER BY a.views_count DESC", SortViews.Clause())

	// Clause тотальна: неизвестный ключ дает сортировку по новизне
	assert.Equal(t, "ORDER BY a.created_at DESC", SortKey("bogus").Clause())
}

func TestSanitizeSearch(t *testing.T) {
	// Короткие запросы отбрасываются
	assert.Empty(t, SanitizeSearch("ab"))
	assert.Empty(t, SanitizeSearch("  ab  "))
	assert.Empty(t, SanitizeSearch(""))

	// Три значимых символа — минимум
	assert.Equal(t, "абв", SanitizeSearch("абв"))
	assert.Equal(t, "abc", SanitizeSearch("  abc  "))

	// Спецсимволы заменяются пробелами
	assert.Equal(t, "abc  def", SanitizeSearch("abc; def"))
	assert.Equal(t, "велосипед bmx-20", SanitizeSearch("велосипед bmx-20"))

	// Если после очистки осталось меньше трех символов, запрос отбрасывается
	assert.Empty(t, SanitizeSearch("a;'!b"))
	assert.Empty(t, SanitizeSearch("';--"))
}
