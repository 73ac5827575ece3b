// Package storage реализует хранилище учетных записей на основе PostgreSQL.
// Предоставляет методы поиска пользователя по имени, почте и токенам,
// проверки уникальности и сохранения записи.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/magabrotheeeer/account-auth/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

const userColumns = `uid, username, email, password_hash, is_active, is_email_verified,
			      verification_token, password_reset_token, password_reset_expiry,
			      created_at, updated_at, last_login_at`

// FindUserByUsername возвращает пользователя по его username или (nil, nil), если не найден.
func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.FindUserByUsername"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	return s.findOne(ctx, op, query, username)
}

// FindUserByEmail возвращает пользователя по его email или (nil, nil), если не найден.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	return s.findOne(ctx, op, query, email)
}

// FindUserByVerificationToken возвращает пользователя по токену подтверждения почты.
// Очищенный токен не совпадает ни с одной записью.
func (s *Storage) FindUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.FindUserByVerificationToken"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE verification_token = $1`
	return s.findOne(ctx, op, query, token)
}

// FindUserByPasswordResetToken возвращает пользователя по токену сброса пароля.
func (s *Storage) FindUserByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.FindUserByPasswordResetToken"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE password_reset_token = $1`
	return s.findOne(ctx, op, query, token)
}

// ExistsByUsername проверяет, занято ли имя пользователя.
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const op = "storage.ExistsByUsername"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsByEmail проверяет, зарегистрирована ли почта.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsByEmail"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// SaveUser сохраняет запись пользователя: вставка при пустом ID, иначе обновление.
// Возвращает запись с присвоенным идентификатором.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.SaveUser"

	if user.ID == "" {
		query := `INSERT INTO users (username, email, password_hash, is_active, is_email_verified,
				      verification_token, password_reset_token, password_reset_expiry,
				      created_at, updated_at, last_login_at)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				  RETURNING uid;`
		var newID string
		if err := s.DB.QueryRowContext(ctx, query,
			user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsEmailVerified,
			user.VerificationToken, user.PasswordResetToken, user.PasswordResetExpiry,
			user.CreatedAt, user.UpdatedAt, user.LastLoginAt).Scan(&newID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		user.ID = newID
		return user, nil
	}

	query := `UPDATE users
			  SET username = $1, email = $2, password_hash = $3, is_active = $4,
			      is_email_verified = $5, verification_token = $6, password_reset_token = $7,
			      password_reset_expiry = $8, updated_at = $9, last_login_at = $10
			  WHERE uid = $11`
	if _, err := s.DB.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsEmailVerified,
		user.VerificationToken, user.PasswordResetToken, user.PasswordResetExpiry,
		user.UpdatedAt, user.LastLoginAt, user.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// SetUserActive включает или отключает учетную запись. Сервис аутентификации
// этот метод не вызывает, это точка подключения для административного контура.
func (s *Storage) SetUserActive(ctx context.Context, userID string, active bool) error {
	const op = "storage.SetUserActive"
	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE uid = $2`, active, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) findOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)

	var verificationToken, passwordResetToken sql.NullString
	var passwordResetExpiry, lastLoginAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsEmailVerified, &verificationToken, &passwordResetToken,
		&passwordResetExpiry, &u.CreatedAt, &u.UpdatedAt, &lastLoginAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if verificationToken.Valid {
		u.VerificationToken = &verificationToken.String
	}
	if passwordResetToken.Valid {
		u.PasswordResetToken = &passwordResetToken.String
	}
	if passwordResetExpiry.Valid {
		u.PasswordResetExpiry = &passwordResetExpiry.Time
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return u, nil
}
