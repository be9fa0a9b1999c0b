// Package notify — каналы доставки уведомлений NotificationAction.
//
// Router выбирает канал по типу уведомления:
//   - in_app    — StoreSink, запись в таблицу уведомлений
//   - push, sms — QueueSink, публикация в RabbitMQ для внешних шлюзов
package notify
