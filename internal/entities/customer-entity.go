package entities

import (
	"os-manager/pkg/types"

	"github.com/aarondl/null/v8"
)

type Customer struct {
	ID       uint64      `db:"id"`
	TenantID string      `db:"tenant_id"`
	Name     string      `db:"name"`
	Phone    null.String `db:"phone"`
	Email    null.String `db:"email"`
	Document null.String `db:"document"`
	Address  null.String `db:"address"`
	types.BaseEntity
}
