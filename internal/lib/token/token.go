// Package token генерирует непрозрачные одноразовые токены для ссылок
// подтверждения почты и сброса пароля. Токен используется только для
// поиска по точному совпадению и никогда не разбирается.
package token

import "github.com/google/uuid"

// Generator выдает случайные непрозрачные строки (uuid v4, 122 бита энтропии).
type Generator struct{}

// Generate возвращает новый токен.
func (Generator) Generate() string {
	return uuid.NewString()
}
