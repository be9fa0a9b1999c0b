package actions

import (
	"fmt"

	"github.com/shaiso/Actuator/internal/domain"
)

func configurationError(format string, args ...any) domain.ExecutionResult {
	return domain.Failure(domain.ErrorConfiguration, fmt.Sprintf(format, args...))
}

func resolutionError(format string, args ...any) domain.ExecutionResult {
	return domain.Failure(domain.ErrorResolution, fmt.Sprintf(format, args...))
}

// templateError — ошибка рендеринга шаблона what.
func templateError(what string, err error) domain.ExecutionResult {
	return domain.Failure(domain.ErrorTemplate, fmt.Sprintf("Failed to render %s: %v", what, err))
}

func transportError(format string, args ...any) domain.ExecutionResult {
	return domain.Failure(domain.ErrorTransport, fmt.Sprintf(format, args...))
}

// missingDependency — действию не передан нужный коллаборатор.
func missingDependency(kind domain.ActionKind, what string) domain.ExecutionResult {
	return configurationError("%s action requires %s, none configured", kind, what)
}
