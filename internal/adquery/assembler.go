package adquery

import "strings"

// adBaseSelect — базовый запрос листинга: объявление с категорией, локацией,
// владельцем и тегами, свернутыми в JSON-массив на строку
const adBaseSelect = `
SELECT
    a.id, a.user_id, a.category_id, a.location_id, a.title, a.description,
    a.price, a.currency, a.created_at, a.moderation_status, a.is_active,
    a.views_count, a.image_urls,
    c.name AS category_name, c.slug AS category_slug,
    l.city, l.district, l.street, l.building,
    u.username AS owner_username, u.avatar_url AS owner_avatar,
    COALESCE(array_to_json(array_agg(DISTINCT jsonb_build_object('id', t.id, 'name', t.name, 'slug', t.slug))
        FILTER (WHERE t.id IS NOT NULL)), '[]'::json) AS tags
FROM ads a
JOIN categories c ON c.id = a.category_id
JOIN locations l ON l.id = a.location_id
JOIN users u ON u.id = a.user_id
LEFT JOIN ad_tags at ON at.ad_id = a.id
LEFT JOIN tags t ON t.id = at.tag_id`

// adGroupBy схлопывает строки LEFT JOIN по тегам в одну строку на объявление
const adGroupBy = "GROUP BY a.id, c.id, l.id, u.id"

// Assemble собирает итоговый запрос из базового SELECT, условий WHERE,
// группировки и сортировки. LIMIT и OFFSET привязываются последними.
func Assemble(base, groupBy string, conds []string, sort SortKey, b *Binder, limit, offset int) string {
	var sb strings.Builder
	sb.WriteString(base)

	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if groupBy != "" {
		sb.WriteString("\n")
		sb.WriteString(groupBy)
	}

	sb.WriteString("\n")
	sb.WriteString(sort.Clause())

	sb.WriteString("\nLIMIT ")
	sb.WriteString(b.Bind(limit))
	sb.WriteString(" OFFSET ")
	sb.WriteString(b.Bind(offset))

	return sb.String()
}

// ListQuery собирает листинговый запрос по критериям фильтра и возвращает
// текст запроса вместе со списком параметров
func ListQuery(f Filter) (string, []any) {
	b := &Binder{}
	conds := BuildAdPredicates(f, b)
	query := Assemble(adBaseSelect, adGroupBy, conds, f.Sort, b, f.Limit, f.Offset)
	return query, b.Args()
}

// GetByIDQuery возвращает запрос одного объявления с теми же вложенными
// сущностями, что и в листинге
func GetByIDQuery() string {
	return adBaseSelect + "\nWHERE a.id = $1::uuid\n" + adGroupBy
}
