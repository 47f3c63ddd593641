package dto

type FinanceEntryDTO struct {
	ID          uint64  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueDate     *string `json:"due_date,omitempty"`
	Paid        bool    `json:"paid"`
	PaidAt      *string `json:"paid_at,omitempty"`
	CreatedAt   *string `json:"created_at,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type CreateFinanceEntryDTO struct {
	Description string  `json:"description" validate:"required,min=2,max=240"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateFinanceEntryDTO struct {
	Description *string  `json:"description" validate:"omitempty,min=2,max=240"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	DueDate     *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Paid        *bool    `json:"paid"`
}

type SalesSnapshotDTO struct {
	SnapshotDate string  `json:"snapshot_date"`
	OrdersCount  int     `json:"orders_count"`
	GrossTotal   float64 `json:"gross_total"`
}
