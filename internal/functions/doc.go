// Package functions — реестр функций, доступных FunctionAction.
//
// Функции регистрируются явно при старте процесса (Register).
// Поиск по имени никогда не загружает код динамически:
// определение workflow может вызвать только то, что зарегистрировано.
package functions
