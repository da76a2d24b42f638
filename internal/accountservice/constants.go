package accountservice

const (
	// Error messages for account service operations
	ErrFailedToHashPassword  = "failed to hash password" // #nosec G101
	ErrFailedToCreateAccount = "failed to create account"
	ErrRetrievingAccount     = "error retrieving account"
	ErrAccountNotFound       = "account not found"
	ErrInvalidPassword       = "invalid password"
)
