package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"os-manager/internal/entities"
	infradb "os-manager/internal/infrastructure/db"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	FINANCE_ENTRY_TABLE  = "finance_entries"
	FINANCE_ENTRY_FIELDS = "id, tenant_id, description, amount, due_date, paid, paid_at, created_at, updated_at"

	SALES_SNAPSHOT_TABLE = "sales_snapshots"
)

var financeFilterColumns = map[string]string{
	"paid":     "paid",
	"due_date": "due_date",
	"amount":   "amount",
}

type FinanceRepositoryInterface interface {
	GetFinanceEntries(ctx context.Context, tenantID string, filter types.Filter) ([]entities.FinanceEntry, uint64, error)
	FindFinanceEntry(ctx context.Context, tenantID string, id uint64) (*entities.FinanceEntry, error)
	CreateFinanceEntry(ctx context.Context, entity entities.FinanceEntry) (*entities.FinanceEntry, error)
	UpdateFinanceEntry(ctx context.Context, tenantID string, id uint64, entity entities.FinanceEntry) (*entities.FinanceEntry, error)
	DeleteFinanceEntry(ctx context.Context, tenantID string, id uint64) error

	// UpsertDailySnapshot recomputes one day's sales aggregate from
	// delivered orders and stores it idempotently.
	UpsertDailySnapshot(ctx context.Context, tenantID string, day time.Time) (*entities.SalesSnapshot, error)
	GetSnapshots(ctx context.Context, tenantID string, from, to time.Time) ([]entities.SalesSnapshot, error)
}

type FinanceRepository struct {
	storage *pgxpool.Pool
}

func NewFinanceRepository(storage *pgxpool.Pool) FinanceRepositoryInterface {
	return &FinanceRepository{storage: storage}
}

func scanFinanceEntry(row pgx.Row) (*entities.FinanceEntry, error) {
	var f entities.FinanceEntry
	err := row.Scan(
		&f.ID,
		&f.TenantID,
		&f.Description,
		&f.Amount,
		&f.DueDate,
		&f.Paid,
		&f.PaidAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FinanceRepository) GetFinanceEntries(ctx context.Context, tenantID string, filter types.Filter) ([]entities.FinanceEntry, uint64, error) {
	builder := sq.Select(FINANCE_ENTRY_FIELDS).
		From(FINANCE_ENTRY_TABLE).
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		builder = builder.Where(sq.Expr("description ILIKE ?", "%"+filter.Search+"%"))
	}
	builder = infradb.ApplyListParams(builder, filter, financeFilterColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.FinanceEntry, 0)
	for rows.Next() {
		var f entities.FinanceEntry
		if err := rows.Scan(&f.ID, &f.TenantID, &f.Description, &f.Amount, &f.DueDate, &f.Paid, &f.PaidAt, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant_id = $1", FINANCE_ENTRY_TABLE)
	if err := r.storage.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *FinanceRepository) FindFinanceEntry(ctx context.Context, tenantID string, id uint64) (*entities.FinanceEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE tenant_id = $1 AND id = $2
	`, FINANCE_ENTRY_FIELDS, FINANCE_ENTRY_TABLE)

	return scanFinanceEntry(r.storage.QueryRow(ctx, query, tenantID, id))
}

func (r *FinanceRepository) CreateFinanceEntry(ctx context.Context, entity entities.FinanceEntry) (*entities.FinanceEntry, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, description, amount, due_date)
        VALUES ($1, $2, $3, $4)
        RETURNING %s
    `, FINANCE_ENTRY_TABLE, FINANCE_ENTRY_FIELDS)

	return scanFinanceEntry(r.storage.QueryRow(ctx, query,
		entity.TenantID,
		entity.Description,
		entity.Amount,
		entity.DueDate,
	))
}

func (r *FinanceRepository) UpdateFinanceEntry(ctx context.Context, tenantID string, id uint64, entity entities.FinanceEntry) (*entities.FinanceEntry, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET description = $1, amount = $2, due_date = $3, paid = $4, paid_at = $5, updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $6 AND id = $7
        RETURNING %s
    `, FINANCE_ENTRY_TABLE, FINANCE_ENTRY_FIELDS)

	return scanFinanceEntry(r.storage.QueryRow(ctx, query,
		entity.Description,
		entity.Amount,
		entity.DueDate,
		entity.Paid,
		entity.PaidAt,
		tenantID,
		id,
	))
}

func (r *FinanceRepository) DeleteFinanceEntry(ctx context.Context, tenantID string, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE tenant_id = $1 AND id = $2", FINANCE_ENTRY_TABLE)

	result, err := r.storage.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FinanceRepository) UpsertDailySnapshot(ctx context.Context, tenantID string, day time.Time) (*entities.SalesSnapshot, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, snapshot_date, orders_count, gross_total)
        SELECT $1, $2::date, COUNT(*), COALESCE(SUM(total), 0)
        FROM %s
        WHERE tenant_id = $1 AND status = 'DELIVERED' AND deleted_at IS NULL
          AND updated_at::date = $2::date
        ON CONFLICT (tenant_id, snapshot_date)
        DO UPDATE SET orders_count = EXCLUDED.orders_count, gross_total = EXCLUDED.gross_total
        RETURNING id, tenant_id, snapshot_date, orders_count, gross_total, created_at
    `, SALES_SNAPSHOT_TABLE, SERVICE_ORDER_TABLE)

	var s entities.SalesSnapshot
	err := r.storage.QueryRow(ctx, query, tenantID, day).Scan(
		&s.ID, &s.TenantID, &s.SnapshotDate, &s.OrdersCount, &s.GrossTotal, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *FinanceRepository) GetSnapshots(ctx context.Context, tenantID string, from, to time.Time) ([]entities.SalesSnapshot, error) {
	query := fmt.Sprintf(`
        SELECT id, tenant_id, snapshot_date, orders_count, gross_total, created_at
        FROM %s
        WHERE tenant_id = $1 AND snapshot_date BETWEEN $2 AND $3
        ORDER BY snapshot_date
    `, SALES_SNAPSHOT_TABLE)

	rows, err := r.storage.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]entities.SalesSnapshot, 0)
	for rows.Next() {
		var s entities.SalesSnapshot
		if err := rows.Scan(&s.ID, &s.TenantID, &s.SnapshotDate, &s.OrdersCount, &s.GrossTotal, &s.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
