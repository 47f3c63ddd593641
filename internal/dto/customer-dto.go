package dto

type CustomerDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Document  *string `json:"document,omitempty"`
	Address   *string `json:"address,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type CreateCustomerDTO struct {
	Name     string  `json:"name" validate:"required,min=2,max=160"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Document *string `json:"document" validate:"omitempty,max=32"`
	Address  *string `json:"address" validate:"omitempty,max=240"`
}

type UpdateCustomerDTO struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=160"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Document *string `json:"document" validate:"omitempty,max=32"`
	Address  *string `json:"address" validate:"omitempty,max=240"`
}
