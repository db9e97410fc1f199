package batch

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// Queryer покрывает пул соединений для читающих запросов
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Validator проверяет существование всех внешних ключей батча перед записью.
// На каждый вид ссылок выполняется один запрос принадлежности множеству,
// а не запрос на каждую запись.
type Validator struct {
	db Queryer
}

// NewValidator создает валидатор поверх пула соединений
func NewValidator(db Queryer) *Validator {
	return &Validator{db: db}
}

// references — различные внешние ключи, встречающиеся в батче
type references struct {
	userIDs     []uuid.UUID
	categoryIDs []int
	locationIDs []int
	tagIDs      []int
}

// collectReferences собирает отсортированные множества внешних ключей батча
func collectReferences(ads []AdImport) references {
	users := make(map[uuid.UUID]struct{})
	categories := make(map[int]struct{})
	locations := make(map[int]struct{})
	tags := make(map[int]struct{})

	for _, ad := range ads {
		users[ad.UserID] = struct{}{}
		categories[ad.CategoryID] = struct{}{}
		locations[ad.LocationID] = struct{}{}
		for _, tagID := range ad.TagIDs {
			tags[tagID] = struct{}{}
		}
	}

	return references{
		userIDs:     sortedUUIDs(users),
		categoryIDs: sortedInts(categories),
		locationIDs: sortedInts(locations),
		tagIDs:      sortedInts(tags),
	}
}

// Validate проверяет все ссылки батча. Проверки по видам независимы и
// выполняются параллельно; отчет содержит каждый недостающий идентификатор
// каждого вида, а не только первый найденный.
func (v *Validator) Validate(ctx context.Context, ads []AdImport) (ValidationReport, error) {
	refs := collectReferences(ads)

	var report ValidationReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		missing, err := v.missingUUIDs(ctx, "SELECT id FROM users WHERE id = ANY($1)", refs.userIDs)
		if err != nil {
			return fmt.Errorf("проверка пользователей: %w", err)
		}
		report.MissingUsers = missing
		return nil
	})

	g.Go(func() error {
		missing, err := v.missingInts(ctx, "SELECT id FROM categories WHERE id = ANY($1)", refs.categoryIDs)
		if err != nil {
			return fmt.Errorf("проверка категорий: %w", err)
		}
		report.MissingCategories = missing
		return nil
	})

	g.Go(func() error {
		missing, err := v.missingInts(ctx, "SELECT id FROM locations WHERE id = ANY($1)", refs.locationIDs)
		if err != nil {
			return fmt.Errorf("проверка локаций: %w", err)
		}
		report.MissingLocations = missing
		return nil
	})

	g.Go(func() error {
		missing, err := v.missingInts(ctx, "SELECT id FROM tags WHERE id = ANY($1)", refs.tagIDs)
		if err != nil {
			return fmt.Errorf("проверка тегов: %w", err)
		}
		report.MissingTags = missing
		return nil
	})

	if err := g.Wait(); err != nil {
		return ValidationReport{}, err
	}
	return report, nil
}

func (v *Validator) missingInts(ctx context.Context, query string, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := v.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[int]struct{}, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (v *Validator) missingUUIDs(ctx context.Context, query string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := v.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func sortedUUIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
