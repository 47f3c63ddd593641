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
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SERVICE_ORDER_TABLE  = "service_orders"
	SERVICE_ORDER_FIELDS = "id, tenant_id, order_number, customer_id, equipment_name, defect, technician, status, labor_cost, parts_cost, total, created_at, updated_at, deleted_at"

	ORDER_EVENT_TABLE = "order_events"
)

var serviceOrderFilterColumns = map[string]string{
	"status":         "status",
	"customer_id":    "customer_id",
	"technician":     "technician",
	"equipment_name": "equipment_name",
	"order_number":   "order_number",
	"created_at":     "created_at",
}

type ServiceOrderRepositoryInterface interface {
	GetServiceOrders(ctx context.Context, tenantID string, filter types.Filter) ([]entities.ServiceOrder, uint64, error)
	FindServiceOrder(ctx context.Context, tenantID string, id uint64) (*entities.ServiceOrder, error)
	CreateServiceOrderInTx(ctx context.Context, tx pgx.Tx, entity entities.ServiceOrder) (*entities.ServiceOrder, error)
	UpdateServiceOrderInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64, entity entities.ServiceOrder) (*entities.ServiceOrder, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64) (*entities.ServiceOrder, error)
	SoftDeleteServiceOrder(ctx context.Context, tenantID string, id uint64) error

	// CountByEquipmentName is the ledger's count primitive: live orders in
	// the tenant whose equipment_name equals name, case-insensitively.
	CountByEquipmentName(ctx context.Context, tenantID string, name string) (int64, error)

	AppendEventInTx(ctx context.Context, tx pgx.Tx, event entities.OrderEvent) error
	ListEvents(ctx context.Context, tenantID string, orderID uint64) ([]entities.OrderEvent, error)
}

type ServiceOrderRepository struct {
	storage *pgxpool.Pool
}

func NewServiceOrderRepository(storage *pgxpool.Pool) ServiceOrderRepositoryInterface {
	return &ServiceOrderRepository{storage: storage}
}

func scanServiceOrder(row pgx.Row) (*entities.ServiceOrder, error) {
	var o entities.ServiceOrder
	err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.EquipmentName,
		&o.Defect,
		&o.Technician,
		&o.Status,
		&o.LaborCost,
		&o.PartsCost,
		&o.Total,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *ServiceOrderRepository) GetServiceOrders(ctx context.Context, tenantID string, filter types.Filter) ([]entities.ServiceOrder, uint64, error) {
	builder := sq.Select(SERVICE_ORDER_FIELDS).
		From(SERVICE_ORDER_TABLE).
		Where(sq.Eq{"tenant_id": tenantID}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.Expr("defect ILIKE ?", pattern),
			sq.Expr("equipment_name ILIKE ?", pattern),
			sq.Expr("technician ILIKE ?", pattern),
		})
	}
	builder = infradb.ApplyListParams(builder, filter, serviceOrderFilterColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]entities.ServiceOrder, 0)
	for rows.Next() {
		var o entities.ServiceOrder
		if err := rows.Scan(&o.ID, &o.TenantID, &o.OrderNumber, &o.CustomerID, &o.EquipmentName, &o.Defect, &o.Technician, &o.Status, &o.LaborCost, &o.PartsCost, &o.Total, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant_id = $1 AND deleted_at IS NULL", SERVICE_ORDER_TABLE)
	if err := r.storage.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *ServiceOrderRepository) findOrder(ctx context.Context, q querier, tenantID string, id uint64, forUpdate bool) (*entities.ServiceOrder, error) {
	suffix := ""
	if forUpdate {
		suffix = " FOR UPDATE"
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL%s
	`, SERVICE_ORDER_FIELDS, SERVICE_ORDER_TABLE, suffix)

	return scanServiceOrder(q.QueryRow(ctx, query, tenantID, id))
}

func (r *ServiceOrderRepository) FindServiceOrder(ctx context.Context, tenantID string, id uint64) (*entities.ServiceOrder, error) {
	return r.findOrder(ctx, r.storage, tenantID, id, false)
}

func (r *ServiceOrderRepository) CreateServiceOrderInTx(ctx context.Context, tx pgx.Tx, entity entities.ServiceOrder) (*entities.ServiceOrder, error) {
	// order numbers are sequential per tenant; the max+1 read is safe inside
	// the surrounding transaction because of the (tenant_id, order_number)
	// unique constraint
	var nextNumber int
	numberQuery := fmt.Sprintf("SELECT COALESCE(MAX(order_number), 0) + 1 FROM %s WHERE tenant_id = $1", SERVICE_ORDER_TABLE)
	if err := tx.QueryRow(ctx, numberQuery, entity.TenantID).Scan(&nextNumber); err != nil {
		return nil, err
	}

	equipmentName := entity.EquipmentName
	if equipmentName.Valid {
		equipmentName = null.StringFrom(NormalizeEquipmentName(equipmentName.String))
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, order_number, customer_id, equipment_name, defect, technician, status, labor_cost, parts_cost, total)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING %s
    `, SERVICE_ORDER_TABLE, SERVICE_ORDER_FIELDS)

	return scanServiceOrder(tx.QueryRow(ctx, query,
		entity.TenantID,
		nextNumber,
		entity.CustomerID,
		equipmentName,
		entity.Defect,
		entity.Technician,
		entity.Status,
		entity.LaborCost,
		entity.PartsCost,
		entity.LaborCost+entity.PartsCost,
	))
}

// FindForUpdateInTx reads the order's current state with a row lock. The
// edit path MUST call this before writing so the ledger sees the
// pre-update equipment name.
func (r *ServiceOrderRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64) (*entities.ServiceOrder, error) {
	return r.findOrder(ctx, tx, tenantID, id, true)
}

func (r *ServiceOrderRepository) UpdateServiceOrderInTx(ctx context.Context, tx pgx.Tx, tenantID string, id uint64, entity entities.ServiceOrder) (*entities.ServiceOrder, error) {
	equipmentName := entity.EquipmentName
	if equipmentName.Valid {
		equipmentName = null.StringFrom(NormalizeEquipmentName(equipmentName.String))
	}

	query := fmt.Sprintf(`
        UPDATE %s
        SET customer_id = $1, equipment_name = $2, defect = $3, technician = $4,
            status = $5, labor_cost = $6, parts_cost = $7, total = $8,
            updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $9 AND id = $10 AND deleted_at IS NULL
        RETURNING %s
    `, SERVICE_ORDER_TABLE, SERVICE_ORDER_FIELDS)

	return scanServiceOrder(tx.QueryRow(ctx, query,
		entity.CustomerID,
		equipmentName,
		entity.Defect,
		entity.Technician,
		entity.Status,
		entity.LaborCost,
		entity.PartsCost,
		entity.LaborCost+entity.PartsCost,
		tenantID,
		id,
	))
}

func (r *ServiceOrderRepository) SoftDeleteServiceOrder(ctx context.Context, tenantID string, id uint64) error {
	query := fmt.Sprintf(`
        UPDATE %s SET deleted_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
    `, SERVICE_ORDER_TABLE)

	result, err := r.storage.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ServiceOrderRepository) CountByEquipmentName(ctx context.Context, tenantID string, name string) (int64, error) {
	query := fmt.Sprintf(`
        SELECT COUNT(*) FROM %s
        WHERE tenant_id = $1 AND upper(equipment_name) = $2 AND deleted_at IS NULL
    `, SERVICE_ORDER_TABLE)

	var count int64
	if err := r.storage.QueryRow(ctx, query, tenantID, NormalizeEquipmentName(name)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ServiceOrderRepository) AppendEventInTx(ctx context.Context, tx pgx.Tx, event entities.OrderEvent) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, order_id, old_status, new_status, actor_id, note)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, ORDER_EVENT_TABLE)

	_, err := tx.Exec(ctx, query,
		event.TenantID,
		event.OrderID,
		event.OldStatus,
		event.NewStatus,
		event.ActorID,
		event.Note,
	)
	return err
}

func (r *ServiceOrderRepository) ListEvents(ctx context.Context, tenantID string, orderID uint64) ([]entities.OrderEvent, error) {
	query := fmt.Sprintf(`
        SELECT id, tenant_id, order_id, old_status, new_status, actor_id, note, created_at
        FROM %s
        WHERE tenant_id = $1 AND order_id = $2
        ORDER BY id
    `, ORDER_EVENT_TABLE)

	rows, err := r.storage.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]entities.OrderEvent, 0)
	for rows.Next() {
		var e entities.OrderEvent
		if err := rows.Scan(&e.ID, &e.TenantID, &e.OrderID, &e.OldStatus, &e.NewStatus, &e.ActorID, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
