package users

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/adboard-api/internal/adquery"
	"github.com/rajivgeraev/adboard-api/internal/apperrors"
	"github.com/rajivgeraev/adboard-api/internal/db"
	"github.com/rajivgeraev/adboard-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserService представляет сервис для работы с пользователями
type UserService struct {
	db *pgxpool.Pool
}

// NewUserService создает новый экземпляр UserService
func NewUserService(pool *pgxpool.Pool) *UserService {
	return &UserService{db: pool}
}

var phonePattern = regexp.MustCompile(`^\+7\d{10}$`)

const userColumns = `id, email, username, first_name, last_name, role,
       created_at, is_verified, is_banned, avatar_url`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.Role, &u.CreatedAt, &u.IsVerified, &u.IsBanned, &u.AvatarURL)
	return u, err
}

// CreateUser создает нового пользователя
func (s *UserService) CreateUser(c fiber.Ctx) error {
	var req struct {
		Email      string  `json:"email"`
		Phone      string  `json:"phone"`
		Password   string  `json:"password"`
		Username   string  `json:"username"`
		FirstName  string  `json:"first_name"`
		LastName   string  `json:"last_name"`
		Role       string  `json:"role"`
		IsVerified bool    `json:"is_verified"`
		IsBanned   bool    `json:"is_banned"`
		AvatarURL  *string `json:"avatar_url"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат email"})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Телефон должен быть в формате +7XXXXXXXXXX"})
	}
	if len([]rune(req.Username)) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя пользователя должно быть не короче 3 символов"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен быть не короче 8 символов"})
	}
	if req.FirstName == "" {
		req.FirstName = "not filled in"
	}
	if req.LastName == "" {
		req.LastName = "not filled in"
	}
	if req.Role == "" {
		req.Role = "user"
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	var exists int
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM users WHERE email = $1", req.Email).Scan(&exists); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email уже зарегистрирован"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Ошибка проверки email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM users WHERE phone = $1", req.Phone).Scan(&exists); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Телефон уже зарегистрирован"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Ошибка проверки телефона: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания пользователя"})
	}

	user, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (
		    email, phone, password_hash, username, first_name, last_name,
		    role, is_verified, is_banned, avatar_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+userColumns,
		req.Email, req.Phone, string(hash), req.Username, req.FirstName, req.LastName,
		req.Role, req.IsVerified, req.IsBanned, req.AvatarURL))

	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь уже существует"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при создании пользователя"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser возвращает информацию о пользователе по ID
func (s *UserService) GetUser(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	user, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userUUID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователя"})
	}

	return c.JSON(user)
}

// GetUsers возвращает список пользователей с фильтрацией по роли и блокировке
func (s *UserService) GetUsers(c fiber.Ctx) error {
	offset := 0
	if v := c.Query("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр skip должен быть неотрицательным числом"})
		}
		offset = parsed
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр limit должен быть числом от 1 до 100"})
		}
		limit = parsed
	}

	// Необязательные условия собираются через общий Binder
	b := &adquery.Binder{}
	var conds []string

	if role := c.Query("role"); role != "" {
		conds = append(conds, "role = "+b.Bind(role))
	}
	if v := c.Query("is_banned"); v != "" {
		isBanned, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Параметр is_banned должен быть true или false"})
		}
		conds = append(conds, "is_banned = "+b.Bind(isBanned))
	}

	query := "SELECT " + userColumns + " FROM users"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %s OFFSET %s", b.Bind(limit), b.Bind(offset))

	ctx, cancel := db.QueryContext()
	defer cancel()

	rows, err := s.db.Query(ctx, query, b.Args()...)
	if err != nil {
		log.Printf("Ошибка запроса пользователей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователей"})
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Printf("Ошибка сканирования пользователя: %v", err)
			continue
		}
		result = append(result, user)
	}

	return c.JSON(result)
}

// UpdateUser обновляет пользователя: только переданные поля
func (s *UserService) UpdateUser(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var req struct {
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Password   *string `json:"password"`
		Username   *string `json:"username"`
		FirstName  *string `json:"first_name"`
		LastName   *string `json:"last_name"`
		Role       *string `json:"role"`
		IsVerified *bool   `json:"is_verified"`
		IsBanned   *bool   `json:"is_banned"`
		AvatarURL  *string `json:"avatar_url"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	b := &adquery.Binder{}
	var setClauses []string

	if req.Email != nil {
		setClauses = append(setClauses, "email = "+b.Bind(*req.Email))
	}
	if req.Phone != nil {
		if !phonePattern.MatchString(*req.Phone) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Телефон должен быть в формате +7XXXXXXXXXX"})
		}
		setClauses = append(setClauses, "phone = "+b.Bind(*req.Phone))
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен быть не короче 8 символов"})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Ошибка хеширования пароля: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления пользователя"})
		}
		setClauses = append(setClauses, "password_hash = "+b.Bind(string(hash)))
	}
	if req.Username != nil {
		setClauses = append(setClauses, "username = "+b.Bind(*req.Username))
	}
	if req.FirstName != nil {
		setClauses = append(setClauses, "first_name = "+b.Bind(*req.FirstName))
	}
	if req.LastName != nil {
		setClauses = append(setClauses, "last_name = "+b.Bind(*req.LastName))
	}
	if req.Role != nil {
		setClauses = append(setClauses, "role = "+b.Bind(*req.Role))
	}
	if req.IsVerified != nil {
		setClauses = append(setClauses, "is_verified = "+b.Bind(*req.IsVerified))
	}
	if req.IsBanned != nil {
		setClauses = append(setClauses, "is_banned = "+b.Bind(*req.IsBanned))
	}
	if req.AvatarURL != nil {
		setClauses = append(setClauses, "avatar_url = "+b.Bind(*req.AvatarURL))
	}

	if len(setClauses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нет полей для обновления"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = %s RETURNING %s",
		strings.Join(setClauses, ", "), b.Bind(userUUID.String()), userColumns)

	user, err := scanUser(s.db.QueryRow(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка обновления пользователя: %v", err)
		if apperrors.IsUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email или телефон уже заняты"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при обновлении пользователя"})
	}

	return c.JSON(user)
}

// DeleteUser удаляет пользователя
func (s *UserService) DeleteUser(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.QueryContext()
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", userUUID.String())
	if err != nil {
		log.Printf("Ошибка удаления пользователя: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка при удалении пользователя"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
