package repo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// RoleRepo — справочник ролей поверх групп Django (auth_group, auth_user_groups).
type RoleRepo struct {
	db DB
}

// NewRoleRepo создаёт новый RoleRepo.
func NewRoleRepo(db DB) *RoleRepo {
	return &RoleRepo{db: db}
}

// UsersWithRoles возвращает ID пользователей, состоящих хотя бы в одной из групп.
func (r *RoleRepo) UsersWithRoles(ctx context.Context, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT ug.user_id
		FROM auth_user_groups ug
		JOIN auth_group g ON g.id = ug.group_id
		WHERE g.name = ANY($1)
		ORDER BY ug.user_id
	`
	rows, err := r.db.Query(ctx, query, roles)
	if err != nil {
		return nil, fmt.Errorf("list users by roles: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan user ids: %w", err)
	}

	users := make([]string, len(ids))
	for i, id := range ids {
		users[i] = strconv.FormatInt(id, 10)
	}
	return users, nil
}
