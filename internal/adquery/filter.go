package adquery

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Границы пагинации листингового запроса
const (
	DefaultLimit = 20
	MaxLimit     = 100

	// Минимальная длина поискового запроса после очистки
	minSearchLen = 3
)

// SortKey определяет порядок сортировки листинга
type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortViews     SortKey = "views"
)

// ParseSortKey проверяет строковое значение ключа сортировки.
// Неизвестные значения отклоняются, а не заменяются значением по умолчанию.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortOldest, SortViews:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("неизвестный ключ сортировки: %q", s)
}

// Clause возвращает ORDER BY для ключа сортировки.
// Функция тотальна: для неизвестного ключа возвращается сортировка по новизне.
func (k SortKey) Clause() string {
	switch k {
	case SortPriceAsc:
		return "ORDER BY a.price ASC"
	case SortPriceDesc:
		return "ORDER BY a.price DESC"
	case SortOldest:
		return "ORDER BY a.created_at ASC"
	case SortViews:
		return "ORDER BY a.views_count DESC"
	default:
		return "ORDER BY a.created_at DESC"
	}
}

// ModerationStatuses — допустимые статусы модерации объявления
var ModerationStatuses = map[string]bool{
	"PENDING":  true,
	"APPROVED": true,
	"REJECTED": true,
}

// Filter — набор необязательных критериев листингового запроса.
// Нулевые указатели означают отсутствие критерия.
type Filter struct {
	Search        string
	CategoryID    *int
	MinPrice      *float64
	MaxPrice      *float64
	City          string
	TagIDs        []int
	MinViews      *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	HasImages     *bool
	OwnerID       *uuid.UUID

	ModerationStatus string
	IsActive         bool

	Sort   SortKey
	Limit  int
	Offset int
}

// SanitizeSearch очищает поисковую строку: обрезает пробелы и заменяет
// символы вне букв/цифр/пробела/дефиса/подчеркивания на пробелы.
// Возвращает пустую строку, если после очистки осталось меньше трех
// значимых (непробельных) символов.
func SanitizeSearch(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return ' '
	}, strings.TrimSpace(s))

	cleaned = strings.TrimSpace(cleaned)
	if utf8.RuneCountInString(strings.ReplaceAll(cleaned, " ", "")) < minSearchLen {
		return ""
	}
	return cleaned
}
