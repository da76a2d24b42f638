package dto

// MeResponseDTO echoes the session claims. Credits is the cached value from
// the token, not a fresh read of the account store.
type MeResponseDTO struct {
	Username string `json:"username"`
	Credits  int64  `json:"credits"`
}
