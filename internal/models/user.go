// Package models содержит доменную модель пользователя сервиса аутентификации,
// включающую учётные данные, хэш пароля и поля жизненного цикла
// подтверждения почты и сброса пароля. Структура используется
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                  string     // Уникальный идентификатор, присваивается хранилищем
	Username            string     // Имя пользователя (уникальное)
	Email               string     // Электронная почта (уникальная)
	PasswordHash        string     // Bcrypt-хэш пароля
	IsActive            bool       // false полностью запрещает вход
	IsEmailVerified     bool       // Становится true ровно один раз при подтверждении
	VerificationToken   *string    // Токен подтверждения почты, nil после подтверждения
	PasswordResetToken  *string    // Токен сброса пароля, nil если сброс не запрошен
	PasswordResetExpiry *time.Time // Срок действия токена сброса, задается вместе с ним
	CreatedAt           time.Time  // Время создания записи
	UpdatedAt           time.Time  // Обновляется при каждой мутации
	LastLoginAt         *time.Time // Время последнего успешного входа
}
