package repo

import "errors"

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrUnknownRelation — для поля не описана связь с другой моделью.
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrNoChanges — сохранение без изменённых полей.
	ErrNoChanges = errors.New("no changes to save")
)
