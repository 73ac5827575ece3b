// Package services содержит логику бизнес-уровня для работы с учетными записями:
// регистрация, вход, подтверждение почты и сброс пароля.
//
// Сервис не хранит состояния процесса: все данные живут в записи пользователя
// во внешнем хранилище. Каждая мутирующая операция выполняет одно чтение и одну
// запись без сериализации конкурентных обновлений одной записи: две параллельные
// подтверждающие операции сброса могут обе пройти проверку срока по устаревшим данным.
//
// Вход возвращает одинаковый текст "Invalid credentials" для неизвестного
// пользователя и неверного пароля; запрос сброса и повторная отправка письма
// возвращают "User not found" и тем самым раскрывают существование учетной записи.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/magabrotheeeer/account-auth/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
// Методы Find* возвращают (nil, nil), если запись не найдена.
type UserRepository interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindUserByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SaveUser сохраняет запись (вставка при пустом ID, иначе обновление)
	// и возвращает её с присвоенным идентификатором.
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Notifier отправляет письма со ссылками подтверждения и сброса.
// Ошибка отправки прерывает операцию, даже если запись уже сохранена.
type Notifier interface {
	SendVerificationLink(toEmail, username, token string) error
	SendPasswordResetLink(toEmail, username, token string) error
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenGenerator выдает непрозрачные одноразовые токены.
type TokenGenerator interface {
	Generate() string
}

// Result результат успешной операции.
type Result struct {
	UserID   string
	Username string
	Message  string
}

// AuthService отвечает за регистрацию, вход, подтверждение почты и сброс пароля.
type AuthService struct {
	users    UserRepository
	notifier Notifier
	hasher   PasswordHasher
	tokens   TokenGenerator
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, notifier Notifier, hasher PasswordHasher, tokens TokenGenerator) *AuthService {
	return &AuthService{
		users:    users,
		notifier: notifier,
		hasher:   hasher,
		tokens:   tokens,
	}
}

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegexp    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
)

// ResetTokenTTL срок действия токена сброса пароля.
const ResetTokenTTL = 24 * time.Hour

// Register создает нового пользователя с хэшированием пароля и
// отправляет письмо со ссылкой подтверждения почты.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*Result, error) {
	const op = "services.auth.Register"

	if strings.TrimSpace(username) == "" {
		return nil, validationError("Username is required")
	}
	if len(username) < 3 {
		return nil, validationError("Username must be at least 3 characters long")
	}
	if !usernameRegexp.MatchString(username) {
		return nil, validationError("Username can only contain letters, numbers, and underscores")
	}
	if len(password) < 8 {
		return nil, validationError("Password must be at least 8 characters long")
	}
	if strings.TrimSpace(email) == "" {
		return nil, validationError("Email is required")
	}
	if !emailRegexp.MatchString(email) {
		return nil, validationError("Invalid email format")
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, validationError("Username already taken")
	}
	registered, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if registered {
		return nil, validationError("Email already registered")
	}

	verificationToken := s.tokens.Generate()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		IsActive:          true,
		IsEmailVerified:   false,
		VerificationToken: &verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	saved, err := s.users.SaveUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Запись уже сохранена: при ошибке отправки пользователь остается
	// в состоянии "ожидает подтверждения" без письма, восстановление —
	// через ResendVerificationEmail.
	if err := s.notifier.SendVerificationLink(email, username, verificationToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		UserID:   saved.ID,
		Username: saved.Username,
		Message:  "Registration successful. Please check your email to verify your account.",
	}, nil
}

// Login проверяет учетные данные пользователя (по имени или почте)
// и фиксирует время входа.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*Result, error) {
	const op = "services.auth.Login"

	if strings.TrimSpace(usernameOrEmail) == "" {
		return nil, validationError("Username or email is required")
	}
	if password == "" {
		return nil, validationError("Password is required")
	}

	user, err := s.findByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, validationError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, validationError("Account is disabled")
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, validationError("Invalid credentials")
	}
	if !user.IsEmailVerified {
		return nil, validationError("Please verify your email before logging in. Check your inbox for the verification link.")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if _, err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Login successful",
	}, nil
}

// VerifyEmail подтверждает почту по токену. Токен одноразовый: после успеха
// он очищается, и повторный вызов с ним завершится "Invalid or expired verification token".
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*Result, error) {
	const op = "services.auth.VerifyEmail"

	if strings.TrimSpace(token) == "" {
		return nil, validationError("Verification token is required")
	}

	user, err := s.users.FindUserByVerificationToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, validationError("Invalid or expired verification token")
	}
	// Достижимо только если токен подтвержденного пользователя не был очищен.
	if user.IsEmailVerified {
		return nil, validationError("Email is already verified")
	}

	user.IsEmailVerified = true
	user.VerificationToken = nil
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Email verified successfully. You can now log in.",
	}, nil
}

// InitiatePasswordReset выдает токен сброса со сроком действия 24 часа
// и отправляет письмо со ссылкой. Повторный вызов всегда выдает новый токен,
// прежний перестает совпадать при поиске.
func (s *AuthService) InitiatePasswordReset(ctx context.Context, usernameOrEmail string) error {
	const op = "services.auth.InitiatePasswordReset"

	if strings.TrimSpace(usernameOrEmail) == "" {
		return validationError("Username or email is required")
	}

	user, err := s.findByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return validationError("User not found")
	}

	resetToken := s.tokens.Generate()
	now := time.Now().UTC()
	expiry := now.Add(ResetTokenTTL)
	user.PasswordResetToken = &resetToken
	user.PasswordResetExpiry = &expiry
	user.UpdatedAt = now
	if _, err := s.users.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.SendPasswordResetLink(user.Email, user.Username, resetToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidatePasswordResetToken проверяет, действует ли еще токен сброса.
// Чистое чтение без мутаций, ошибок не возвращает.
func (s *AuthService) ValidatePasswordResetToken(ctx context.Context, token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	user, err := s.users.FindUserByPasswordResetToken(ctx, token)
	if err != nil || user == nil {
		return false
	}
	if user.PasswordResetExpiry == nil || user.PasswordResetExpiry.Before(time.Now().UTC()) {
		return false
	}
	return true
}

// ConfirmPasswordReset устанавливает новый пароль по действующему токену сброса.
// Токен и срок очищаются, повторное использование невозможно.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*Result, error) {
	const op = "services.auth.ConfirmPasswordReset"

	if strings.TrimSpace(token) == "" {
		return nil, validationError("Reset token is required")
	}
	if len(newPassword) < 8 {
		return nil, validationError("Password must be at least 8 characters long")
	}

	user, err := s.users.FindUserByPasswordResetToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, validationError("Invalid or expired reset token")
	}
	if user.PasswordResetExpiry == nil || user.PasswordResetExpiry.Before(time.Now().UTC()) {
		return nil, validationError("Reset token has expired. Please request a new one.")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = hash
	user.PasswordResetToken = nil
	user.PasswordResetExpiry = nil
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Password reset successful. You can now log in with your new password.",
	}, nil
}

// ResendVerificationEmail повторно отправляет письмо подтверждения.
// Новый токен выдается и сохраняется только если текущий отсутствует,
// иначе существующий используется как есть без записи в хранилище.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, usernameOrEmail string) error {
	const op = "services.auth.ResendVerificationEmail"

	if strings.TrimSpace(usernameOrEmail) == "" {
		return validationError("Username or email is required")
	}

	user, err := s.findByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return validationError("User not found")
	}
	if user.IsEmailVerified {
		return validationError("Email is already verified")
	}

	if user.VerificationToken == nil {
		verificationToken := s.tokens.Generate()
		user.VerificationToken = &verificationToken
		user.UpdatedAt = time.Now().UTC()
		if _, err := s.users.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.notifier.SendVerificationLink(user.Email, user.Username, *user.VerificationToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// findByUsernameOrEmail ищет пользователя сначала по имени, затем по почте.
func (s *AuthService) findByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	user, err := s.users.FindUserByUsername(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return s.users.FindUserByEmail(ctx, usernameOrEmail)
}
