package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ResultResponse — результат выполнения действия.
type ResultResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Response  any            `json:"response,omitempty"`
	ErrorKind string         `json:"error_kind,omitempty"`
}

// QueuedResponse — ответ на асинхронное выполнение.
type QueuedResponse struct {
	RequestID string `json:"request_id"`
}

// --- Request types ---

// ExecuteRequest — запрос на выполнение действия.
// Config и Instance передаются как есть: CLI не разбирает их структуру.
type ExecuteRequest struct {
	Config   json.RawMessage `json:"config"`
	Instance json.RawMessage `json:"instance,omitempty"`
	Extra    map[string]any  `json:"extra,omitempty"`
	Async    bool            `json:"async,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Actuator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Actions ---

// ExecuteAction выполняет действие синхронно.
func (c *Client) ExecuteAction(req ExecuteRequest) (*ResultResponse, error) {
	req.Async = false
	var result ResultResponse
	err := c.post("/api/v1/actions/execute", req, &result)
	return &result, err
}

// EnqueueAction ставит действие в очередь воркера.
func (c *Client) EnqueueAction(req ExecuteRequest) (*QueuedResponse, error) {
	req.Async = true
	var queued QueuedResponse
	err := c.post("/api/v1/actions/execute", req, &queued)
	return &queued, err
}

// ValidateAction проверяет конфигурацию действия.
func (c *Client) ValidateAction(config json.RawMessage) error {
	body := map[string]json.RawMessage{"config": config}
	return c.post("/api/v1/actions/validate", body, nil)
}

// ListKinds возвращает поддерживаемые типы действий.
func (c *Client) ListKinds() ([]string, error) {
	var kinds []string
	err := c.list("/api/v1/actions/kinds", nil, &kinds)
	return kinds, err
}

// --- Functions ---

// ListFunctions возвращает зарегистрированные функции.
// Если prefix не пустой — только имена с этим префиксом ("text.").
func (c *Client) ListFunctions(prefix string) ([]string, error) {
	params := url.Values{}
	if prefix != "" {
		params.Set("prefix", prefix)
	}

	var names []string
	err := c.list("/api/v1/functions", params, &names)
	return names, err
}

// --- HTTP helpers ---

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	if er.Error.Field != "" {
		return fmt.Errorf("%s: %s (field %s)", er.Error.Code, er.Error.Message, er.Error.Field)
	}
	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
