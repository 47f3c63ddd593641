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
	TENANT_TABLE  = "tenants"
	TENANT_FIELDS = "id, name, plan_code, subscription_status, subscription_expires_at, created_at, updated_at"
)

type TenantRepositoryInterface interface {
	GetTenants(ctx context.Context, limit, offset uint64) ([]entities.Tenant, uint64, error)
	FindTenant(ctx context.Context, id string) (*entities.Tenant, error)
	CreateTenant(ctx context.Context, entity entities.Tenant) (*entities.Tenant, error)
	UpdateTenant(ctx context.Context, id string, entity entities.Tenant) (*entities.Tenant, error)
}

type TenantRepository struct {
	storage *pgxpool.Pool
}

func NewTenantRepository(storage *pgxpool.Pool) TenantRepositoryInterface {
	return &TenantRepository{storage: storage}
}

func scanTenant(row pgx.Row) (*entities.Tenant, error) {
	var t entities.Tenant
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.PlanCode,
		&t.SubscriptionStatus,
		&t.SubscriptionExpiresAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) GetTenants(ctx context.Context, limit, offset uint64) ([]entities.Tenant, uint64, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM %s
        ORDER BY created_at
        LIMIT $1 OFFSET $2
    `, TENANT_FIELDS, TENANT_TABLE)

	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tenants := make([]entities.Tenant, 0)
	for rows.Next() {
		var t entities.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.PlanCode, &t.SubscriptionStatus, &t.SubscriptionExpiresAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", TENANT_TABLE)).Scan(&total); err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

func (r *TenantRepository) FindTenant(ctx context.Context, id string) (*entities.Tenant, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", TENANT_FIELDS, TENANT_TABLE)
	return scanTenant(r.storage.QueryRow(ctx, query, id))
}

func (r *TenantRepository) CreateTenant(ctx context.Context, entity entities.Tenant) (*entities.Tenant, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (id, name, plan_code)
        VALUES ($1, $2, $3)
        RETURNING %s
    `, TENANT_TABLE, TENANT_FIELDS)

	return scanTenant(r.storage.QueryRow(ctx, query, entity.ID, entity.Name, entity.PlanCode))
}

func (r *TenantRepository) UpdateTenant(ctx context.Context, id string, entity entities.Tenant) (*entities.Tenant, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET name = $1, plan_code = $2, subscription_status = $3, subscription_expires_at = $4, updated_at = CURRENT_TIMESTAMP
        WHERE id = $5
        RETURNING %s
    `, TENANT_TABLE, TENANT_FIELDS)

	return scanTenant(r.storage.QueryRow(ctx, query,
		entity.Name,
		entity.PlanCode,
		entity.SubscriptionStatus,
		entity.SubscriptionExpiresAt,
		id,
	))
}
