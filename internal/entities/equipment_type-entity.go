package entities

import "os-manager/pkg/types"

// EquipmentType is identified by (tenant_id, name); name is stored
// upper-cased and trimmed. UsageCount is the denormalized counter owned by
// the usage ledger: the number of live service orders in the same tenant
// whose equipment_name matches Name.
type EquipmentType struct {
	ID         uint64 `db:"id"`
	TenantID   string `db:"tenant_id"`
	Name       string `db:"name"`
	Category   string `db:"category"`
	Active     bool   `db:"active"`
	UsageCount int64  `db:"usage_count"`
	types.BaseEntity
}
