package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
)

// maxTextResponse — предел длины текстового ответа в результате.
const maxTextResponse = 1000

// defaultSuccessCodes — коды успеха, если success_codes не задан.
var defaultSuccessCodes = []int{
	http.StatusOK,
	http.StatusCreated,
	http.StatusAccepted,
	http.StatusNoContent,
}

// APICallAction — вызов внешнего HTTP API.
//
// Успех определяется только кодом ответа: код вне success_codes — ошибка
// транспорта, даже если сам запрос прошёл.
//
// Details: status_code, method, url, elapsed_ms.
// Response: тело ответа как JSON или текст (не длиннее 1000 символов).
type APICallAction struct {
	renderer engine.Renderer
	client   HTTPDoer
	timeout  time.Duration
}

// NewAPICallAction создаёт APICallAction.
func NewAPICallAction(deps Deps, settings Settings) *APICallAction {
	deps = deps.withDefaults()
	settings = settings.withDefaults()
	return &APICallAction{
		renderer: deps.Renderer,
		client:   deps.HTTP,
		timeout:  settings.HTTPTimeout,
	}
}

// Kind возвращает api.
func (a *APICallAction) Kind() domain.ActionKind { return domain.ActionKindAPI }

// Execute выполняет HTTP-запрос.
func (a *APICallAction) Execute(ctx context.Context, req *Request) domain.ExecutionResult {
	cfg := req.Config.API
	method := strings.ToUpper(cfg.Method)

	url, err := a.renderer.Render(cfg.URLTemplate, req.TemplateContext)
	if err != nil {
		return templateError("API url", err)
	}

	headers := make(map[string]string, len(cfg.Headers))
	for name, tmpl := range cfg.Headers {
		value, err := a.renderer.Render(tmpl, req.TemplateContext)
		if err != nil {
			return templateError(fmt.Sprintf("API header %s", name), err)
		}
		headers[name] = value
	}

	var body string
	if cfg.BodyTemplate != "" {
		body, err = a.renderer.Render(cfg.BodyTemplate, req.TemplateContext)
		if err != nil {
			return templateError("API body", err)
		}
		if isJSON(headers) && !json.Valid([]byte(body)) {
			return domain.Failure(domain.ErrorTemplate, "API body is not valid JSON")
		}
	}

	timeout := a.timeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout * float64(time.Second))
	}
	callCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(callCtx, method, url, bodyReader)
	if err != nil {
		return configurationError("Invalid API request: %v", err)
	}
	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}
	if cfg.AuthType == domain.AuthBasic {
		httpReq.SetBasicAuth(cfg.AuthCredentials["username"], cfg.AuthCredentials["password"])
	}

	start := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return transportError("API call failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError("API call failed: read response: %v", err)
	}

	details := map[string]any{
		"status_code": resp.StatusCode,
		"method":      method,
		"url":         url,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	}

	codes := cfg.SuccessCodes
	if len(codes) == 0 {
		codes = defaultSuccessCodes
	}

	var result domain.ExecutionResult
	if slices.Contains(codes, resp.StatusCode) {
		result = domain.Success(fmt.Sprintf("API call succeeded with status code %d", resp.StatusCode), details)
	} else {
		result = transportError("API call failed with status code %d", resp.StatusCode).WithDetails(details)
	}
	result.Response = parseResponse(raw)
	return result
}

// isJSON проверяет Content-Type без учёта регистра имени заголовка.
func isJSON(headers map[string]string) bool {
	for name, value := range headers {
		if strings.EqualFold(name, "Content-Type") && strings.Contains(strings.ToLower(value), "application/json") {
			return true
		}
	}
	return false
}

// parseResponse: JSON, если тело разбирается, иначе обрезанный текст.
func parseResponse(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return truncate(string(raw), maxTextResponse)
}

// truncate обрезает строку до n символов (рун).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
