// Package engine содержит общие части движка действий.
//
// Включает:
//   - parser.go   — парсинг и валидация ActionConfig
//   - context.go  — сборка контекста шаблонов из WorkflowInstance
//   - template.go — рендеринг шаблонов ({{ object.name|upper }})
//
// Конкретные типы действий живут в пакете actions и зависят
// только от интерфейса Renderer и ContextBuilder.
package engine
