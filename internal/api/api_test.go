package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Actuator/internal/actions"
	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/functions"
	"github.com/shaiso/Actuator/internal/mq"
)

type fakePublisher struct {
	payloads []mq.ActionRequestedPayload
	err      error
}

func (p *fakePublisher) PublishActionRequested(_ context.Context, payload mq.ActionRequestedPayload) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestServer(t *testing.T, publisher RequestPublisher) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := functions.Default()
	dispatcher := actions.New(actions.Deps{Functions: registry}, actions.DefaultSettings(), logger)

	cfg := Config{Executor: dispatcher, Functions: registry, Logger: logger}
	if publisher != nil {
		cfg.Publisher = publisher
	}

	mux := http.NewServeMux()
	NewHandler(cfg).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const upperAction = `{
	"config": {
		"id": "shout",
		"kind": "function",
		"config": {"function_path": "text.upper", "args": ["{{ object.number }}"]}
	},
	"instance": {
		"id": "inst-1",
		"target": {"app": "shop", "model": "order", "id": 42, "fields": {"number": "a-42"}}
	}
}`

func TestExecuteAction_Success(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/v1/actions/execute", upperAction)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	body := decode[struct {
		Data domain.ExecutionResult `json:"data"`
	}](t, resp)
	assert.Equal(t, domain.ResultSuccess, body.Data.Status)
	assert.Equal(t, "text.upper", body.Data.Details["function"])
	assert.Equal(t, "A-42", body.Data.Details["result"])
}

func TestExecuteAction_LargeIntegers(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/v1/actions/execute", `{
		"config": {
			"kind": "function",
			"config": {"function_path": "text.upper", "args": ["order {{ object.id }} total {{ object.total }} invoice {{ invoice }}"]}
		},
		"instance": {"id": "inst-1", "target": {"app": "shop", "model": "order", "id": 1234567, "fields": {"total": 2500000}}},
		"extra": {"invoice": 7654321}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Data domain.ExecutionResult `json:"data"`
	}](t, resp)
	assert.Equal(t, domain.ResultSuccess, body.Data.Status, body.Data.Message)
	assert.Equal(t, "ORDER 1234567 TOTAL 2500000 INVOICE 7654321", body.Data.Details["result"])
}

func TestExecuteAction_FailureIsStillOK(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/v1/actions/execute",
		`{"config": {"kind": "function", "config": {"function_path": "nope.nope"}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Data domain.ExecutionResult `json:"data"`
	}](t, resp)
	assert.Equal(t, domain.ResultError, body.Data.Status)
	assert.Equal(t, domain.ErrorConfiguration, body.Data.ErrorKind)
}

func TestExecuteAction_BadRequest(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"config":`},
		{"missing config", `{"instance": {"id": "inst-1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/v1/actions/execute", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decode[ErrorResponse](t, resp)
			assert.Equal(t, ErrCodeBadRequest, body.Error.Code)
		})
	}
}

func TestExecuteAction_Async(t *testing.T) {
	publisher := &fakePublisher{}
	srv := newTestServer(t, publisher)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/actions/execute",
		strings.NewReader(strings.Replace(upperAction, `"config": {`, `"async": true, "config": {`, 1)))
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, "req-9")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decode[struct {
		Data QueuedResponse `json:"data"`
	}](t, resp)
	assert.Equal(t, "req-9", body.Data.RequestID)

	require.Len(t, publisher.payloads, 1)
	assert.Equal(t, "req-9", publisher.payloads[0].RequestID)
	assert.Equal(t, "inst-1", publisher.payloads[0].Instance.ID)
}

func TestExecuteAction_AsyncUnavailable(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/v1/actions/execute",
		strings.Replace(upperAction, `"config": {`, `"async": true, "config": {`, 1))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestExecuteAction_AsyncPublishError(t *testing.T) {
	srv := newTestServer(t, &fakePublisher{err: errors.New("broker down")})

	resp := post(t, srv.URL+"/api/v1/actions/execute",
		strings.Replace(upperAction, `"config": {`, `"async": true, "config": {`, 1))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestValidateAction(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("valid", func(t *testing.T) {
		resp := post(t, srv.URL+"/api/v1/actions/validate",
			`{"config": {"kind": "function", "config": {"function_path": "text.upper"}}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[struct {
			Data ValidateResponse `json:"data"`
		}](t, resp)
		assert.True(t, body.Data.Valid)
	})

	t.Run("missing field", func(t *testing.T) {
		resp := post(t, srv.URL+"/api/v1/actions/validate",
			`{"config": {"kind": "email", "config": {"recipient_type": "static"}}}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, ErrCodeInvalidConfig, body.Error.Code)
		assert.Equal(t, "subject_template", body.Error.Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := post(t, srv.URL+"/api/v1/actions/validate", `nope`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListKinds(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/actions/kinds")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Data  []domain.ActionKind `json:"data"`
		Total int                 `json:"total"`
	}](t, resp)
	assert.Equal(t, 5, body.Total)
	assert.Contains(t, body.Data, domain.ActionKindEmail)
	assert.Contains(t, body.Data, domain.ActionKindNotification)
}

func TestListFunctions(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/functions")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decode[struct {
		Data  []string `json:"data"`
		Total int      `json:"total"`
	}](t, resp)
	assert.Contains(t, body.Data, "text.upper")
	assert.Equal(t, len(body.Data), body.Total)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/actions/execute")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(ErrCodeInternalError))
}

func TestListFunctions_Prefix(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/functions?prefix=text.")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decode[struct {
		Data []string `json:"data"`
	}](t, resp)
	assert.Equal(t, []string{"text.lower", "text.slugify", "text.upper"}, body.Data)
}
