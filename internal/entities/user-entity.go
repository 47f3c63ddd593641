package entities

import "os-manager/pkg/types"

type User struct {
	ID           uint64 `db:"id"`
	TenantID     string `db:"tenant_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	types.BaseEntity
}
