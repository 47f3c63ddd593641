package dto

type TenantDTO struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	PlanCode              string  `json:"plan_code"`
	SubscriptionStatus    string  `json:"subscription_status"`
	SubscriptionExpiresAt *string `json:"subscription_expires_at,omitempty"`
	CreatedAt             *string `json:"created_at,omitempty"`
	UpdatedAt             *string `json:"updated_at,omitempty"`
}

type CreateTenantDTO struct {
	Name     string `json:"name" validate:"required,min=2,max=160"`
	PlanCode string `json:"plan_code" validate:"required,plan_code"`
}

type UpdateTenantDTO struct {
	Name                  *string `json:"name" validate:"omitempty,min=2,max=160"`
	PlanCode              *string `json:"plan_code" validate:"omitempty,plan_code"`
	SubscriptionStatus    *string `json:"subscription_status" validate:"omitempty,oneof=ACTIVE PAST_DUE SUSPENDED CANCELED"`
	SubscriptionExpiresAt *string `json:"subscription_expires_at" validate:"omitempty,datetime=2006-01-02"`
}
