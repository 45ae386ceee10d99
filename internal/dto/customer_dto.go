package dto

type SaveCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Phone string `json:"phone" validate:"required,len=10,numeric"`
	RFC   string `json:"rfc" validate:"required"`
}

type CustomerResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	RFC    string `json:"rfc"`
	Points int    `json:"points"`
}
