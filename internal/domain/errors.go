package domain

// ErrorKind — класс ошибки выполнения действия.
type ErrorKind string

const (
	// ErrorConfiguration — обязательный ключ отсутствует или некорректен.
	ErrorConfiguration ErrorKind = "configuration"

	// ErrorResolution — не удалось определить получателей или целевой объект.
	ErrorResolution ErrorKind = "resolution"

	// ErrorTemplate — ошибка рендеринга шаблона.
	ErrorTemplate ErrorKind = "template"

	// ErrorTransport — сбой почты, HTTP или канала уведомлений.
	ErrorTransport ErrorKind = "transport"

	// ErrorPersistence — сбой транзакционного сохранения.
	ErrorPersistence ErrorKind = "persistence"

	// ErrorUnsupported — неизвестный тип действия.
	ErrorUnsupported ErrorKind = "unsupported"

	// ErrorInternal — паника или иная непредвиденная ошибка.
	ErrorInternal ErrorKind = "internal"
)

// ActionError — ошибка с классом из таксономии.
type ActionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error реализует интерфейс error.
func (e *ActionError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError создаёт ActionError.
func NewActionError(kind ErrorKind, message string, err error) *ActionError {
	return &ActionError{Kind: kind, Message: message, Err: err}
}
