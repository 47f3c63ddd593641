package dto

type EquipmentTypeDTO struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Active     bool    `json:"active"`
	UsageCount int64   `json:"usage_count"`
	CreatedAt  *string `json:"created_at,omitempty"`
	UpdatedAt  *string `json:"updated_at,omitempty"`
}

type CreateEquipmentTypeDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Category string `json:"category" validate:"omitempty,max=120"`
}

type UpdateEquipmentTypeDTO struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Category *string `json:"category" validate:"omitempty,max=120"`
	Active   *bool   `json:"active"`
}
