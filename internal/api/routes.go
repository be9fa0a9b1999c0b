package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		RequestID(h.logger),
		Logging(h.logger),
	)

	// Actions
	mux.Handle("POST /api/v1/actions/execute", chain(http.HandlerFunc(h.ExecuteAction)))
	mux.Handle("POST /api/v1/actions/validate", chain(http.HandlerFunc(h.ValidateAction)))
	mux.Handle("GET /api/v1/actions/kinds", chain(http.HandlerFunc(h.ListKinds)))

	// Functions
	mux.Handle("GET /api/v1/functions", chain(http.HandlerFunc(h.ListFunctions)))
}
