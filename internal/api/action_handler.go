package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shaiso/Actuator/internal/domain"
	"github.com/shaiso/Actuator/internal/engine"
	"github.com/shaiso/Actuator/internal/mq"
	"github.com/shaiso/Actuator/internal/telemetry"
)

// ExecuteAction выполняет действие.
// POST /api/v1/actions/execute
//
// Ошибка действия — тоже 200: статус выполнения лежит в результате.
func (h *Handler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.Extra = domain.NormalizeMap(req.Extra)
	if req.Config == nil {
		BadRequest(w, "config is required")
		return
	}

	if req.Async {
		h.enqueue(w, r, req)
		return
	}

	result := h.executor.Execute(r.Context(), req.Config, req.Instance, req.Extra)
	Success(w, result)
}

// enqueue публикует action.requested для воркера.
func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, req ExecuteRequest) {
	if h.publisher == nil {
		Unavailable(w, "async execution is not configured")
		return
	}

	// Некорректная конфигурация отклоняется сразу, а не в DLQ.
	if err := h.executor.Validate(req.Config); err != nil {
		writeValidationError(w, err)
		return
	}

	requestID := r.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	payload := mq.ActionRequestedPayload{
		RequestID: requestID,
		Config:    req.Config,
		Instance:  req.Instance,
		Extra:     req.Extra,
	}
	if err := h.publisher.PublishActionRequested(r.Context(), payload); err != nil {
		telemetry.FromContext(r.Context()).Error("failed to enqueue action", "error", err)
		Unavailable(w, "failed to enqueue action")
		return
	}

	Accepted(w, QueuedResponse{RequestID: requestID})
}

// ValidateAction проверяет конфигурацию без выполнения.
// POST /api/v1/actions/validate
func (h *Handler) ValidateAction(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := h.executor.Validate(req.Config); err != nil {
		writeValidationError(w, err)
		return
	}

	Success(w, ValidateResponse{Valid: true})
}

// ListKinds возвращает поддерживаемые типы действий.
// GET /api/v1/actions/kinds
func (h *Handler) ListKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := h.executor.Kinds()
	List(w, kinds, len(kinds))
}

// ListFunctions возвращает имена зарегистрированных функций.
// GET /api/v1/functions?prefix=text.
func (h *Handler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	names := []string{}
	if h.functions != nil {
		for _, name := range h.functions.Names() {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
	}
	List(w, names, len(names))
}

func writeValidationError(w http.ResponseWriter, err error) {
	var vErr *engine.ValidationError
	if errors.As(err, &vErr) {
		InvalidConfig(w, vErr.Field, vErr.Error())
		return
	}
	BadRequest(w, err.Error())
}
