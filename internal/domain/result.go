package domain

import "errors"

// ExecutionResult — единственное, что движок возвращает вызывающей стороне.
//
// Ни одна ошибка не пересекает границу диспетчера в виде error/panic:
// все сбои сводятся к Status=error с сообщением.
type ExecutionResult struct {
	Status  ResultStatus   `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Response — тело ответа внешнего API (JSON или обрезанный текст).
	Response any `json:"response,omitempty"`

	// ErrorKind — класс ошибки для Status=error.
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

// ChangeRecord — пара старое/новое значение поля для аудита UpdateAction.
type ChangeRecord struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Success создаёт успешный результат.
func Success(message string, details map[string]any) ExecutionResult {
	return ExecutionResult{Status: ResultSuccess, Message: message, Details: details}
}

// Warning создаёт результат с предупреждением.
func Warning(message string, details map[string]any) ExecutionResult {
	return ExecutionResult{Status: ResultWarning, Message: message, Details: details}
}

// Failure создаёт результат с ошибкой заданного класса.
func Failure(kind ErrorKind, message string) ExecutionResult {
	return ExecutionResult{Status: ResultError, Message: message, ErrorKind: kind}
}

// FailureFromError создаёт результат из ошибки.
// Класс берётся из ActionError, иначе используется fallback.
func FailureFromError(err error, fallback ErrorKind) ExecutionResult {
	kind := fallback
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		kind = actionErr.Kind
	}
	return Failure(kind, err.Error())
}

// WithDetails добавляет детали к результату.
func (r ExecutionResult) WithDetails(details map[string]any) ExecutionResult {
	if r.Details == nil {
		r.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		r.Details[k] = v
	}
	return r
}

// OK возвращает true для success и warning.
func (r ExecutionResult) OK() bool {
	return r.Status == ResultSuccess || r.Status == ResultWarning
}
