// Package actions — выполнение действий workflow.
//
// Dispatcher — единственная точка входа: по полю kind выбирает Handler
// (EmailAction, APICallAction, UpdateAction, FunctionAction, NotificationAction),
// собирает контекст шаблонов и возвращает domain.ExecutionResult.
//
// Ни одна ошибка действия не выходит за пределы Dispatcher в виде error
// или паники: вызывающий движок workflow получает только результат.
package actions
