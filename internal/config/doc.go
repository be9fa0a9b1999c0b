// Package config читает настройки процессов Actuator из окружения.
//
// Load подхватывает .env (если файл есть), затем переменные окружения.
// Уже заданные переменные окружения .env не перекрывает.
package config
