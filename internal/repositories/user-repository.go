package repositories

import (
	"context"
	"errors"
	"fmt"

	"os-manager/internal/entities"
	apperrors "os-manager/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	USER_TABLE  = "users"
	USER_FIELDS = "id, tenant_id, name, email, password_hash, role, created_at, updated_at"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, entity entities.User) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID,
		&u.TenantID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", USER_FIELDS, USER_TABLE)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", USER_FIELDS, USER_TABLE)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, entity entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING %s
    `, USER_TABLE, USER_FIELDS)

	return scanUser(r.storage.QueryRow(ctx, query,
		entity.TenantID,
		entity.Name,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
	))
}
