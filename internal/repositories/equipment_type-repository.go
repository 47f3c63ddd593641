package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"os-manager/internal/entities"
	infradb "os-manager/internal/infrastructure/db"
	apperrors "os-manager/pkg/errors"
	"os-manager/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	EQUIPMENT_TYPE_TABLE  = "equipment_types"
	EQUIPMENT_TYPE_FIELDS = "id, tenant_id, name, category, active, usage_count, created_at, updated_at"
)

// NormalizeEquipmentName is the single canonical normalization for equipment
// names: trimmed and upper-cased. Applied here, at the data-access boundary,
// and nowhere else.
func NormalizeEquipmentName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

var equipmentTypeFilterColumns = map[string]string{
	"name":     "name",
	"category": "category",
	"active":   "active",
}

type EquipmentTypeRepositoryInterface interface {
	GetEquipmentTypes(ctx context.Context, tenantID string, filter types.Filter) ([]entities.EquipmentType, uint64, error)
	FindEquipmentType(ctx context.Context, tenantID string, id uint64) (*entities.EquipmentType, error)
	CreateEquipmentType(ctx context.Context, entity entities.EquipmentType) (*entities.EquipmentType, error)
	UpdateEquipmentType(ctx context.Context, tenantID string, id uint64, entity entities.EquipmentType) (*entities.EquipmentType, error)
	DeleteEquipmentType(ctx context.Context, tenantID string, id uint64) error

	// Ledger primitives. AdjustUsage applies the delta atomically in SQL,
	// clamped at zero; found=false means no row matched (ghost name).
	AdjustUsage(ctx context.Context, tenantID string, name string, delta int64) (found bool, err error)
	SetUsage(ctx context.Context, tenantID string, name string, value int64) error
	ListForSweep(ctx context.Context, tenantID string) ([]entities.EquipmentType, error)
}

type EquipmentTypeRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentTypeRepository(storage *pgxpool.Pool) EquipmentTypeRepositoryInterface {
	return &EquipmentTypeRepository{storage: storage}
}

func (r *EquipmentTypeRepository) scanRow(row pgx.Row) (*entities.EquipmentType, error) {
	var et entities.EquipmentType
	err := row.Scan(
		&et.ID,
		&et.TenantID,
		&et.Name,
		&et.Category,
		&et.Active,
		&et.UsageCount,
		&et.CreatedAt,
		&et.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &et, nil
}

func (r *EquipmentTypeRepository) GetEquipmentTypes(ctx context.Context, tenantID string, filter types.Filter) ([]entities.EquipmentType, uint64, error) {
	builder := sq.Select(EQUIPMENT_TYPE_FIELDS).
		From(EQUIPMENT_TYPE_TABLE).
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		builder = builder.Where(sq.Expr("name ILIKE ?", "%"+filter.Search+"%"))
	}
	builder = infradb.ApplyListParams(builder, filter, equipmentTypeFilterColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	equipmentTypes := make([]entities.EquipmentType, 0)
	for rows.Next() {
		var et entities.EquipmentType
		if err := rows.Scan(&et.ID, &et.TenantID, &et.Name, &et.Category, &et.Active, &et.UsageCount, &et.CreatedAt, &et.UpdatedAt); err != nil {
			return nil, 0, err
		}
		equipmentTypes = append(equipmentTypes, et)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant_id = $1", EQUIPMENT_TYPE_TABLE)
	if err := r.storage.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return equipmentTypes, total, nil
}

func (r *EquipmentTypeRepository) FindEquipmentType(ctx context.Context, tenantID string, id uint64) (*entities.EquipmentType, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE tenant_id = $1 AND id = $2
	`, EQUIPMENT_TYPE_FIELDS, EQUIPMENT_TYPE_TABLE)

	return r.scanRow(r.storage.QueryRow(ctx, query, tenantID, id))
}

func (r *EquipmentTypeRepository) CreateEquipmentType(ctx context.Context, entity entities.EquipmentType) (*entities.EquipmentType, error) {
	name := NormalizeEquipmentName(entity.Name)
	category := entity.Category
	if category == "" {
		// historical behavior: category mirrors the name unless set explicitly
		category = name
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, name, category, active)
        VALUES ($1, $2, $3, $4)
        RETURNING %s
    `, EQUIPMENT_TYPE_TABLE, EQUIPMENT_TYPE_FIELDS)

	return r.scanRow(r.storage.QueryRow(ctx, query, entity.TenantID, name, category, entity.Active))
}

func (r *EquipmentTypeRepository) UpdateEquipmentType(ctx context.Context, tenantID string, id uint64, entity entities.EquipmentType) (*entities.EquipmentType, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET name = $1, category = $2, active = $3, updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $4 AND id = $5
        RETURNING %s
    `, EQUIPMENT_TYPE_TABLE, EQUIPMENT_TYPE_FIELDS)

	return r.scanRow(r.storage.QueryRow(ctx, query,
		NormalizeEquipmentName(entity.Name),
		entity.Category,
		entity.Active,
		tenantID,
		id,
	))
}

func (r *EquipmentTypeRepository) DeleteEquipmentType(ctx context.Context, tenantID string, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE tenant_id = $1 AND id = $2", EQUIPMENT_TYPE_TABLE)

	result, err := r.storage.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustUsage pushes the whole read-modify-write into one statement so
// concurrent order saves cannot lose updates, and GREATEST keeps the stored
// counter from ever dropping below zero.
func (r *EquipmentTypeRepository) AdjustUsage(ctx context.Context, tenantID string, name string, delta int64) (bool, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET usage_count = GREATEST(0, usage_count + $1), updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $2 AND name = $3
    `, EQUIPMENT_TYPE_TABLE)

	result, err := r.storage.Exec(ctx, query, delta, tenantID, NormalizeEquipmentName(name))
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *EquipmentTypeRepository) SetUsage(ctx context.Context, tenantID string, name string, value int64) error {
	if value < 0 {
		value = 0
	}
	query := fmt.Sprintf(`
        UPDATE %s
        SET usage_count = $1, updated_at = CURRENT_TIMESTAMP
        WHERE tenant_id = $2 AND name = $3
    `, EQUIPMENT_TYPE_TABLE)

	result, err := r.storage.Exec(ctx, query, value, tenantID, NormalizeEquipmentName(name))
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListForSweep returns every equipment type row for one tenant, or for all
// tenants when tenantID is empty.
func (r *EquipmentTypeRepository) ListForSweep(ctx context.Context, tenantID string) ([]entities.EquipmentType, error) {
	builder := sq.Select(EQUIPMENT_TYPE_FIELDS).
		From(EQUIPMENT_TYPE_TABLE).
		OrderBy("tenant_id", "name").
		PlaceholderFormat(sq.Dollar)
	if tenantID != "" {
		builder = builder.Where(sq.Eq{"tenant_id": tenantID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	equipmentTypes := make([]entities.EquipmentType, 0)
	for rows.Next() {
		var et entities.EquipmentType
		if err := rows.Scan(&et.ID, &et.TenantID, &et.Name, &et.Category, &et.Active, &et.UsageCount, &et.CreatedAt, &et.UpdatedAt); err != nil {
			return nil, err
		}
		equipmentTypes = append(equipmentTypes, et)
	}
	return equipmentTypes, rows.Err()
}
