package dto

type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=20"`
	Name     string `json:"name" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,oneof=admin cashier manager"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,min=3"`
	Password string `json:"password" validate:"omitempty,min=4"`
	Role     string `json:"role" validate:"omitempty,oneof=admin cashier manager"`
}

type UserResponse struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}
