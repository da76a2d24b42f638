package dto

// FundRequestDTO carries the user-supplied pledge. Amount stays a raw string
// so the funding service can distinguish a missing value from a malformed one.
type FundRequestDTO struct {
	Amount string `json:"amount"`
}

type FundResponseDTO struct {
	Message    string `json:"message"`
	NewBalance int64  `json:"new_balance"`
}
