// Package cli реализует инструмент командной строки Actuator.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Actuator API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для выполнения и проверки действий и просмотра
// реестра функций.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Actuator API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	kinds, err := client.ListKinds()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Текст (text/tabwriter) — по умолчанию; результат действия
//     печатается как статус, сообщение и таблица details
//   - JSON (json.Encoder с отступами) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Info/Error) — в stderr.
// Это позволяет использовать pipe: actuator action kinds --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - action: exec, validate, kinds
//   - function: list
//
// Каждая группа создаётся через фабричную функцию (NewActionCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
