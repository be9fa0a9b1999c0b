package engine

import "errors"

// Ошибки валидации ActionConfig.
var (
	// ErrUnknownActionKind — неизвестный тип действия.
	ErrUnknownActionKind = errors.New("unknown action kind")

	// ErrMissingConfig — у действия нет конфигурации для его типа.
	ErrMissingConfig = errors.New("action config is missing")

	// ErrMissingField — обязательное поле не заполнено.
	ErrMissingField = errors.New("required field is missing")

	// ErrInvalidValue — поле заполнено недопустимым значением.
	ErrInvalidValue = errors.New("invalid field value")
)

// Ошибки рендеринга шаблонов.
var (
	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")

	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrUndefinedVariable — переменная не найдена в контексте (строгий режим).
	ErrUndefinedVariable = errors.New("undefined template variable")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	ActionID string // ID действия, где произошла ошибка
	Field    string // поле, вызвавшее ошибку
	Message  string // описание ошибки
	Err      error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.ActionID != "" {
		return "action " + e.ActionID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(actionID, field, message string, err error) *ValidationError {
	return &ValidationError{
		ActionID: actionID,
		Field:    field,
		Message:  message,
		Err:      err,
	}
}
