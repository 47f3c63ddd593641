package entities

import (
	"os-manager/pkg/types"

	"github.com/aarondl/null/v8"
)

// ServiceOrder references its equipment type by name, not by foreign key.
// EquipmentName is free text and may point at no equipment_types row at all;
// the usage ledger tolerates that.
type ServiceOrder struct {
	ID            uint64      `db:"id"`
	TenantID      string      `db:"tenant_id"`
	OrderNumber   int         `db:"order_number"`
	CustomerID    null.Int64  `db:"customer_id"`
	EquipmentName null.String `db:"equipment_name"`
	Defect        string      `db:"defect"`
	Technician    null.String `db:"technician"`
	Status        string      `db:"status"`
	LaborCost     float64     `db:"labor_cost"`
	PartsCost     float64     `db:"parts_cost"`
	Total         float64     `db:"total"`
	types.BaseEntity
	types.SoftDelete
}

// Order statuses.
const (
	OrderStatusOpen       = "OPEN"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

// OrderEvent is one row of an order's status history.
type OrderEvent struct {
	ID        uint64      `db:"id"`
	TenantID  string      `db:"tenant_id"`
	OrderID   uint64      `db:"order_id"`
	OldStatus null.String `db:"old_status"`
	NewStatus string      `db:"new_status"`
	ActorID   null.Int64  `db:"actor_id"`
	Note      string      `db:"note"`
	types.BaseEntity
}
