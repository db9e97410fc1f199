package adquery

import (
	"fmt"
	"strings"
)

// Predicates накапливает SQL-условия листингового запроса. Каждое условие —
// готовый фрагмент с плейсхолдерами, выданными общим Binder; сырые значения
// в текст запроса не попадают.
type Predicates struct {
	binder *Binder
	conds  []string
}

// NewPredicates создает накопитель условий, использующий общий Binder
func NewPredicates(b *Binder) *Predicates {
	return &Predicates{binder: b}
}

// Add добавляет готовый фрагмент условия
func (p *Predicates) Add(cond string) {
	p.conds = append(p.conds, cond)
}

// Conds возвращает условия в порядке добавления
func (p *Predicates) Conds() []string {
	return p.conds
}

// BuildAdPredicates переводит критерии фильтра в условия WHERE.
// Обязательные условия (активность и статус модерации) идут первыми,
// затем необязательные критерии в фиксированном порядке.
func BuildAdPredicates(f Filter, b *Binder) []string {
	p := NewPredicates(b)

	p.Add("a.is_active = " + b.Bind(f.IsActive))
	p.Add("a.moderation_status = " + b.Bind(f.ModerationStatus))

	// Нечеткий поиск по названию, описанию и именам тегов через pg_trgm.
	// Порог схожести — 0.3, значение pg_trgm.similarity_threshold по умолчанию.
	if search := SanitizeSearch(f.Search); search != "" {
		ph := b.Bind(search)
		p.Add(fmt.Sprintf(
			"(a.title %% %[1]s OR a.description %% %[1]s OR EXISTS ("+
				"SELECT 1 FROM ad_tags at2 JOIN tags t2 ON t2.id = at2.tag_id "+
				"WHERE at2.ad_id = a.id AND t2.name %% %[1]s))", ph))
	}

	if f.CategoryID != nil {
		p.Add("a.category_id = " + b.Bind(*f.CategoryID))
	}

	if f.MinPrice != nil {
		p.Add("a.price >= " + b.Bind(*f.MinPrice) + "::numeric")
	}

	if f.MaxPrice != nil {
		p.Add("a.price <= " + b.Bind(*f.MaxPrice) + "::numeric")
	}

	if f.MinViews != nil {
		p.Add("a.views_count >= " + b.Bind(*f.MinViews))
	}

	if f.OwnerID != nil {
		p.Add("a.user_id = " + b.Bind(f.OwnerID.String()) + "::uuid")
	}

	if f.CreatedAfter != nil {
		p.Add("a.created_at >= " + b.Bind(*f.CreatedAfter))
	}

	if f.CreatedBefore != nil {
		p.Add("a.created_at <= " + b.Bind(*f.CreatedBefore))
	}

	// Нечеткое сравнение города без учета регистра
	if city := strings.TrimSpace(f.City); city != "" {
		p.Add("LOWER(l.city) % " + b.Bind(strings.ToLower(city)))
	}

	// Наличие изображений: поле не NULL, не пустая строка и не пустой массив
	if f.HasImages != nil {
		if *f.HasImages {
			p.Add("(a.image_urls IS NOT NULL AND a.image_urls != '' AND a.image_urls != '[]')")
		} else {
			p.Add("(a.image_urls IS NULL OR a.image_urls = '' OR a.image_urls = '[]')")
		}
	}

	// Объявление должно иметь каждый тег из списка, а не хотя бы один:
	// число различных совпавших тегов сравнивается с размером списка
	if len(f.TagIDs) > 0 {
		p.Add(fmt.Sprintf(
			"a.id IN (SELECT ad_id FROM ad_tags WHERE tag_id = ANY(%s) "+
				"GROUP BY ad_id HAVING COUNT(DISTINCT tag_id) = %s)",
			b.Bind(f.TagIDs), b.Bind(len(f.TagIDs))))
	}

	return p.Conds()
}
