package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// bulkInsertAds вставляет весь батч одним запросом: параллельные массивы
// по колонкам, которые база склеивает построчно. Идентификаторы возвращаются
// в порядке входного списка.
const bulkInsertAds = `
INSERT INTO ads (
    user_id, category_id, location_id, title, description,
    price, currency, moderation_status, is_active, image_urls
)
SELECT * FROM UNNEST($1::uuid[], $2::int[], $3::int[], $4::text[],
                     $5::text[], $6::numeric[], $7::text[],
                     $8::text[], $9::boolean[], $10::text[])
RETURNING id`

// bulkInsertAdTags вставляет все связи объявление-тег одним запросом
const bulkInsertAdTags = `
INSERT INTO ad_tags (ad_id, tag_id)
SELECT * FROM UNNEST($1::uuid[], $2::int[])`

// Beginner покрывает пул соединений для открытия транзакций
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Inserter выполняет массовую вставку батча в одной транзакции.
// Вызывается только после того, как Validator не нашел недостающих ссылок.
// Любая ошибка на любом шаге откатывает весь батч: частичная вставка
// снаружи не видна.
type Inserter struct {
	db Beginner
}

// NewInserter создает инсертер поверх пула соединений
func NewInserter(db Beginner) *Inserter {
	return &Inserter{db: db}
}

// rowQuerier — часть транзакции, нужная шагу вставки объявлений
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Insert вставляет объявления и их связи с тегами в одной транзакции
func (i *Inserter) Insert(ctx context.Context, ads []AdImport) (ImportResult, error) {
	tx, err := i.db.Begin(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	ids, err := insertAds(ctx, tx, ads)
	if err != nil {
		return ImportResult{}, err
	}

	// Связи ссылаются на сгенерированные идентификаторы,
	// поэтому вставляются строго вторым шагом
	adIDs, tagIDs := tagAssociations(ads, ids)
	if len(adIDs) > 0 {
		if _, err := tx.Exec(ctx, bulkInsertAdTags, adIDs, tagIDs); err != nil {
			return ImportResult{}, fmt.Errorf("ошибка вставки связей с тегами: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return ImportResult{
		Success:        true,
		CreatedCount:   len(ids),
		TotalRequested: len(ads),
		AdIDs:          ids,
	}, nil
}

// insertAds выполняет колоночную вставку и читает сгенерированные
// идентификаторы в порядке входного списка
func insertAds(ctx context.Context, tx rowQuerier, ads []AdImport) ([]uuid.UUID, error) {
	cols := adColumns(ads)

	rows, err := tx.Query(ctx, bulkInsertAds,
		cols.userIDs, cols.categoryIDs, cols.locationIDs, cols.titles,
		cols.descriptions, cols.prices, cols.currencies,
		cols.statuses, cols.actives, cols.images)
	if err != nil {
		return nil, fmt.Errorf("ошибка массовой вставки объявлений: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(ads))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка чтения идентификатора: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка массовой вставки объявлений: %w", err)
	}

	if len(ids) != len(ads) {
		return nil, fmt.Errorf("вставлено %d объявлений вместо %d", len(ids), len(ads))
	}
	return ids, nil
}

// adColumns раскладывает батч по параллельным массивам колонок
type columns struct {
	userIDs      []uuid.UUID
	categoryIDs  []int
	locationIDs  []int
	titles       []string
	descriptions []string
	prices       []float64
	currencies   []string
	statuses     []string
	actives      []bool
	images       []string
}

func adColumns(ads []AdImport) columns {
	c := columns{
		userIDs:      make([]uuid.UUID, len(ads)),
		categoryIDs:  make([]int, len(ads)),
		locationIDs:  make([]int, len(ads)),
		titles:       make([]string, len(ads)),
		descriptions: make([]string, len(ads)),
		prices:       make([]float64, len(ads)),
		currencies:   make([]string, len(ads)),
		statuses:     make([]string, len(ads)),
		actives:      make([]bool, len(ads)),
		images:       make([]string, len(ads)),
	}

	for i, ad := range ads {
		c.userIDs[i] = ad.UserID
		c.categoryIDs[i] = ad.CategoryID
		c.locationIDs[i] = ad.LocationID
		c.titles[i] = ad.Title
		c.descriptions[i] = ad.Description
		c.prices[i] = ad.Price
		c.currencies[i] = ad.Currency
		c.statuses[i] = ad.ModerationStatus
		c.actives[i] = ad.IsActive
		c.images[i] = ad.ImageURLs
	}
	return c
}

// tagAssociations строит пары (id объявления, id тега) для всех объявлений
// батча по уже сгенерированным идентификаторам
func tagAssociations(ads []AdImport, ids []uuid.UUID) ([]uuid.UUID, []int) {
	var adIDs []uuid.UUID
	var tagIDs []int

	for i, ad := range ads {
		for _, tagID := range ad.TagIDs {
			adIDs = append(adIDs, ids[i])
			tagIDs = append(tagIDs, tagID)
		}
	}
	return adIDs, tagIDs
}
