// Package app собирает зависимости процессов actuator-api и actuator-worker:
// пул БД, соединение с RabbitMQ, почту, каналы уведомлений и движок действий.
package app
