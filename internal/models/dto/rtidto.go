package dto

type NewRTIRequestDTO struct {
	Name    string `json:"name" validate:"required,max=256"`
	Summary string `json:"summary" validate:"required,max=4096"`
}

type NewRTIResponseDTO struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type RTIRequestDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Funds   int64  `json:"funds"`
}

type RTIListResponseDTO struct {
	Requests []RTIRequestDTO `json:"requests"`
}
