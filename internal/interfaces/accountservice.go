package interfaces

import (
	"context"

	"github.com/avinassh/rtiman/internal/models"
)

type AccountService interface {
	// RegisterAccount creates an account with the configured starting credit
	// balance and returns the stored record.
	RegisterAccount(ctx context.Context, username, password string) (*models.Account, error)

	// AuthenticateAccount verifies the credentials and returns the stored
	// account so callers can seed the session with the current balance.
	AuthenticateAccount(ctx context.Context, username, password string) (*models.Account, error)
}
