package dto

type SignupRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type SignupResponseDTO struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id,omitempty"`
	Credits   int64  `json:"credits"`
}
