package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserPostgresRepository only reads users; accounts are managed elsewhere.
type UserPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserPostgresRepository {
	return &UserPostgresRepository{pool: pool}
}

func (r *UserPostgresRepository) CountUsers(ctx context.Context, filter model.UserFilter) (int64, error) {
	stmt, args := userCountQuery(filter)

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func userCountQuery(filter model.UserFilter) (string, pgx.NamedArgs) {
	var conditions []string
	args := pgx.NamedArgs{}

	if filter.Role != "" {
		conditions = append(conditions, "role = @role")
		args["role"] = filter.Role
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = @type")
		args["type"] = filter.Type
	}

	return countQuery("users", conditions), args
}
