package entities

import (
	"os-manager/pkg/types"

	"github.com/aarondl/null/v8"
)

type Tenant struct {
	ID                    string      `db:"id"`
	Name                  string      `db:"name"`
	PlanCode              string      `db:"plan_code"`
	SubscriptionStatus    string      `db:"subscription_status"`
	SubscriptionExpiresAt null.Time   `db:"subscription_expires_at"`
	types.BaseEntity
}
