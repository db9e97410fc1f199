package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound возвращается, когда запись по идентификатору не найдена
var ErrNotFound = errors.New("запись не найдена")

// ValidationError — ошибка входных данных, о которой можно сообщить клиенту
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation создает ValidationError с заданным сообщением
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation проверяет, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUniqueViolation проверяет нарушение уникальности (код 23505 в Postgres)
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation проверяет нарушение внешнего ключа (код 23503 в Postgres)
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
