package services

import "errors"

// ValidationError описывает нарушение бизнес-правила или предусловия операции.
// Reason — человекочитаемый текст, который вызывающая сторона показывает как есть.
// Все остальные ошибки сервиса — отказы зависимостей (хранилище, отправка писем),
// они оборачиваются через fmt.Errorf и не предназначены для показа пользователю.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation возвращает true, если ошибка является ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationError(reason string) error {
	return &ValidationError{Reason: reason}
}
