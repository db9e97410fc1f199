package batch

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows отдает заранее заданные идентификаторы вместо строк из базы
type fakeRows struct {
	intIDs  []int
	uuidIDs []uuid.UUID
	idx     int
	err     error
}

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	return r.idx < len(r.intIDs)+len(r.uuidIDs)
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(r.intIDs) > 0 {
		*(dest[0].(*int)) = r.intIDs[r.idx]
	} else {
		*(dest[0].(*uuid.UUID)) = r.uuidIDs[r.idx]
	}
	r.idx++
	return nil
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

// fakeDB подменяет пул для валидатора: по таблице в тексте запроса
// возвращает заданные существующие идентификаторы
type fakeDB struct {
	mu sync.Mutex

	existingUsers      []uuid.UUID
	existingCategories []int
	existingLocations  []int
	existingTags       []int

	queries []string
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.mu.Lock()
	db.queries = append(db.queries, sql)
	db.mu.Unlock()

	switch {
	case strings.Contains(sql, "FROM users"):
		return &fakeRows{uuidIDs: db.existingUsers}, nil
	case strings.Contains(sql, "FROM categories"):
		return &fakeRows{intIDs: db.existingCategories}, nil
	case strings.Contains(sql, "FROM locations"):
		return &fakeRows{intIDs: db.existingLocations}, nil
	case strings.Contains(sql, "FROM tags"):
		return &fakeRows{intIDs: db.existingTags}, nil
	}
	return nil, errors.New("неожиданный запрос: " + sql)
}

// fakeTx фиксирует, была ли транзакция зафиксирована или откачена
type fakeTx struct {
	insertedIDs []uuid.UUID
	queryErr    error
	execErr     error

	execCalls  int
	execArgs   []any
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if t.queryErr != nil {
		return nil, t.queryErr
	}
	return &fakeRows{uuidIDs: t.insertedIDs}, nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	t.execCalls++
	t.execArgs = arguments
	return pgconn.CommandTag{}, t.execErr
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.rolledBack {
		return errors.New("транзакция уже откачена")
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Conn() *pgx.Conn                           { return nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults  { return nil }

// fakeBeginner выдает заранее созданную транзакцию
type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}
