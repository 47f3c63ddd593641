package dto

type ServiceOrderDTO struct {
	ID            uint64  `json:"id"`
	OrderNumber   int     `json:"order_number"`
	CustomerID    *int64  `json:"customer_id,omitempty"`
	EquipmentName *string `json:"equipment_name,omitempty"`
	Defect        string  `json:"defect"`
	Technician    *string `json:"technician,omitempty"`
	Status        string  `json:"status"`
	LaborCost     float64 `json:"labor_cost"`
	PartsCost     float64 `json:"parts_cost"`
	Total         float64 `json:"total"`
	CreatedAt     *string `json:"created_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
}

type CreateServiceOrderDTO struct {
	CustomerID    *int64  `json:"customer_id"`
	EquipmentName *string `json:"equipment_name" validate:"omitempty,max=120"`
	Defect        string  `json:"defect" validate:"required,min=3"`
	Technician    *string `json:"technician" validate:"omitempty,max=120"`
	LaborCost     float64 `json:"labor_cost" validate:"gte=0"`
	PartsCost     float64 `json:"parts_cost" validate:"gte=0"`
}

type UpdateServiceOrderDTO struct {
	CustomerID    *int64   `json:"customer_id"`
	EquipmentName *string  `json:"equipment_name" validate:"omitempty,max=120"`
	Defect        *string  `json:"defect" validate:"omitempty,min=3"`
	Technician    *string  `json:"technician" validate:"omitempty,max=120"`
	Status        *string  `json:"status" validate:"omitempty,order_status"`
	LaborCost     *float64 `json:"labor_cost" validate:"omitempty,gte=0"`
	PartsCost     *float64 `json:"parts_cost" validate:"omitempty,gte=0"`
	Note          *string  `json:"note" validate:"omitempty,max=500"`
}

type OrderEventDTO struct {
	ID        uint64  `json:"id"`
	OrderID   uint64  `json:"order_id"`
	OldStatus *string `json:"old_status,omitempty"`
	NewStatus string  `json:"new_status"`
	ActorID   *int64  `json:"actor_id,omitempty"`
	Note      string  `json:"note"`
	CreatedAt *string `json:"created_at,omitempty"`
}
