package dto

type RateLimitResponse struct {
	Message string `json:"message"`
}
