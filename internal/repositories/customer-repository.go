package repositories

import (
	"context"
	"errors"
	"fmt"

	"os-manager/internal/entities"
	infradb "os-manager/internal/infrastructure/db"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	CUSTOMER_TABLE  = "customers"
	CUSTOMER_FIELDS = "id, tenant_id, name, phone, email, document, address, created_at, updated_at"
)

var customerFilterColumns = map[string]string{
	"name":       "name",
	"phone":      "phone",
	"email":      "email",
	"document":   "document",
	"created_at": "created_at",
}

type CustomerRepositoryInterface interface {
	GetCustomers(ctx context.Context, tenantID string, filter types.Filter) ([]entities.Customer, uint64, error)
	FindCustomer(ctx context.Context, tenantID string, id uint64) (*entities.Customer, error)
	CreateCustomer(ctx context.Context, entity entities.Customer) (*entities.Customer, error)
	UpdateCustomer(ctx context.Context, tenantID string, id uint64, entity entities.Customer) (*entities.Customer, error)
	DeleteCustomer(ctx context.Context, tenantID string, id uint64) error
}

type CustomerRepository struct {
	storage *pgxpool.Pool
}

func NewCustomerRepository(storage *pgxpool.Pool) CustomerRepositoryInterface {
	return &CustomerRepository{storage: storage}
}

func scanCustomer(row pgx.Row) (*entities.Customer, error) {
	var c entities.Customer
	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Document,
		&c.Address,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) GetCustomers(ctx context.Context, tenantID string, filter types.Filter) ([]entities.Customer, uint64, error) {
	builder := sq.Select(CUSTOMER_FIELDS).
		From(CUSTOMER_TABLE).
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.Expr("name ILIKE ?", pattern),
			sq.Expr("phone ILIKE ?", pattern),
			sq.Expr("document ILIKE ?", pattern),
		})
	}
	builder = infradb.ApplyListParams(builder, filter, customerFilterColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]entities.Customer, 0)
	for rows.Next() {
		var c entities.Customer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Email, &c.Document, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant_id = $1", CUSTOMER_TABLE)
	if err := r.storage.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *CustomerRepository) FindCustomer(ctx context.Context, tenantID string, id uint64) (*entities.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE tenant_id = $1 AND id = $2
	`, CUSTOMER_FIELDS, CUSTOMER_TABLE)

	return scanCustomer(r.storage.QueryRow(ctx, query, tenantID, id))
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, entity entities.Customer) (*entities.Customer, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, name, phone, email, document, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, CUSTOMER_TABLE, CUSTOMER_FIELDS)

	return scanCustomer(r.storage.QueryRow(ctx, query,
		entity.TenantID,
		entity.Name,
		entity.Phone,
		entity.Email,
		entity.Document,
		entity.Address,
	))
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, tenantID string, id uint64, entity entities.Customer) (*entities.Customer, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET name = $1, phone = $2, email = $3, document = $4, address = $5, updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $6 AND id = $7
        RETURNING %s
    `, CUSTOMER_TABLE, CUSTOMER_FIELDS)

	return scanCustomer(r.storage.QueryRow(ctx, query,
		entity.Name,
		entity.Phone,
		entity.Email,
		entity.Document,
		entity.Address,
		tenantID,
		id,
	))
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, tenantID string, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE tenant_id = $1 AND id = $2", CUSTOMER_TABLE)

	result, err := r.storage.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
