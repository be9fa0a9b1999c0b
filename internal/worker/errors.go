package worker

import "errors"

// Ошибки воркера.
var (
	// ErrInvalidRequest — в запросе нет конфигурации действия.
	ErrInvalidRequest = errors.New("invalid action request")

	// ErrNoExecutor — воркер создан без исполнителя действий.
	ErrNoExecutor = errors.New("worker has no executor")
)
