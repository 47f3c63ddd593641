package entities

import (
	"time"

	"os-manager/pkg/types"

	"github.com/aarondl/null/v8"
)

// FinanceEntry is an accounts-payable record.
type FinanceEntry struct {
	ID          uint64      `db:"id"`
	TenantID    string      `db:"tenant_id"`
	Description string      `db:"description"`
	Amount      float64     `db:"amount"`
	DueDate     null.Time   `db:"due_date"`
	Paid        bool        `db:"paid"`
	PaidAt      null.Time   `db:"paid_at"`
	types.BaseEntity
}

// SalesSnapshot is a per-day aggregate of delivered orders.
type SalesSnapshot struct {
	ID           uint64    `db:"id"`
	TenantID     string    `db:"tenant_id"`
	SnapshotDate time.Time `db:"snapshot_date"`
	OrdersCount  int       `db:"orders_count"`
	GrossTotal   float64   `db:"gross_total"`
	types.BaseEntity
}
