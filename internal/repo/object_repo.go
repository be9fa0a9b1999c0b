package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shaiso/Actuator/internal/domain"
)

// ObjectRepo — доступ к строкам моделей Django для UpdateAction.
//
// Имена таблиц и колонок приходят из конфигурации действий,
// поэтому всегда экранируются через pgx.Identifier.
type ObjectRepo struct {
	db     DB
	models *ModelRegistry
}

// NewObjectRepo создаёт новый ObjectRepo.
func NewObjectRepo(db DB, models *ModelRegistry) *ObjectRepo {
	if models == nil {
		models = NewModelRegistry()
	}
	return &ObjectRepo{db: db, models: models}
}

// GetByKey возвращает объект модели app.model, у которого field = value.
func (r *ObjectRepo) GetByKey(ctx context.Context, app, model, field string, value any) (*domain.Object, error) {
	meta := r.models.Lookup(app, model)

	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 LIMIT 1`,
		pgx.Identifier{meta.Table}.Sanitize(),
		pgx.Identifier{field}.Sanitize(),
	)

	rows, err := r.db.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", meta.Table, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s with %s=%v", ErrNotFound, label(app, model), field, value)
		}
		return nil, fmt.Errorf("scan %s: %w", meta.Table, err)
	}

	return rowToObject(app, model, meta.PK, row), nil
}

// Reload перечитывает строку объекта по первичному ключу модели.
func (r *ObjectRepo) Reload(ctx context.Context, obj *domain.Object) (*domain.Object, error) {
	return r.GetByKey(ctx, obj.App, obj.Model, r.models.Lookup(obj.App, obj.Model).PK, obj.PK)
}

// Related загружает объект, на который ссылается внешний ключ field.
func (r *ObjectRepo) Related(ctx context.Context, obj *domain.Object, field string) (*domain.Object, error) {
	relApp, relModel, err := r.models.Relation(obj.App, obj.Model, field)
	if err != nil {
		return nil, err
	}

	fk, ok := foreignKey(obj, field)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no value for %s", ErrNotFound, obj, field)
	}

	return r.GetByKey(ctx, relApp, relModel, r.models.Lookup(relApp, relModel).PK, fk)
}

// SaveInTransaction записывает изменённые поля объекта и журнал изменений
// в одной транзакции. Если строка не найдена, транзакция откатывается.
func (r *ObjectRepo) SaveInTransaction(ctx context.Context, obj *domain.Object, changes []domain.ChangeRecord) error {
	if len(changes) == 0 {
		return ErrNoChanges
	}

	meta := r.models.Lookup(obj.App, obj.Model)

	sets := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)
	for i, c := range changes {
		sets = append(sets, fmt.Sprintf("%s = $%d", pgx.Identifier{c.Field}.Sanitize(), i+1))
		args = append(args, c.New)
	}
	args = append(args, obj.PK)

	update := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
		pgx.Identifier{meta.Table}.Sanitize(),
		strings.Join(sets, ", "),
		pgx.Identifier{meta.PK}.Sanitize(),
		len(args),
	)

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, update, args...)
		if err != nil {
			return fmt.Errorf("update %s: %w", meta.Table, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, obj)
		}

		now := time.Now().UTC()
		for _, c := range changes {
			if err := insertChange(ctx, tx, obj, c, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// insertChange пишет одну запись журнала изменений.
func insertChange(ctx context.Context, tx pgx.Tx, obj *domain.Object, c domain.ChangeRecord, at time.Time) error {
	oldJSON, err := json.Marshal(c.Old)
	if err != nil {
		return fmt.Errorf("marshal old value: %w", err)
	}
	newJSON, err := json.Marshal(c.New)
	if err != nil {
		return fmt.Errorf("marshal new value: %w", err)
	}

	query := `
		INSERT INTO workflow_action_changes
			(id, app_label, model_name, object_pk, field, old_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, query,
		uuid.New(),
		obj.App,
		obj.Model,
		fmt.Sprint(obj.PK),
		c.Field,
		oldJSON,
		newJSON,
		at,
	)
	if err != nil {
		return fmt.Errorf("insert change: %w", err)
	}
	return nil
}

// foreignKey возвращает значение внешнего ключа: "<field>_id", затем "<field>".
func foreignKey(obj *domain.Object, field string) (any, bool) {
	for _, name := range []string{field + "_id", field} {
		if v, ok := obj.Fields[name]; ok && v != nil {
			switch v.(type) {
			case *domain.Object, map[string]any:
				continue
			}
			return v, true
		}
	}
	return nil, false
}

// rowToObject строит Object из строки таблицы.
func rowToObject(app, model, pk string, row map[string]any) *domain.Object {
	fields := make(map[string]any, len(row))
	for name, value := range row {
		fields[name] = normalize(value)
	}
	return &domain.Object{
		App:    app,
		Model:  model,
		PK:     fields[pk],
		Fields: fields,
	}
}

// normalize приводит типы pgx к значениям, понятным шаблонам и JSON.
func normalize(value any) any {
	switch v := value.(type) {
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(v).String()
	default:
		return value
	}
}
