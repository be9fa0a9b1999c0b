// Package api содержит HTTP API сервер actuator-api.
//
// Структура:
//   - handler.go        — Handler с DI (движок действий, реестр функций, publisher, logger)
//   - routes.go         — регистрация маршрутов
//   - middleware.go     — middleware (recovery, request id, logging)
//   - response.go       — унифицированные JSON-ответы
//   - dto.go            — Data Transfer Objects (request/response)
//   - action_handler.go — обработчики для /actions и /functions
//
// Endpoints:
//
//	POST /api/v1/actions/execute   — выполнить действие (или поставить в очередь, async=true)
//	POST /api/v1/actions/validate  — проверить конфигурацию
//	GET  /api/v1/actions/kinds     — поддерживаемые типы действий
//	GET  /api/v1/functions         — зарегистрированные функции
package api
