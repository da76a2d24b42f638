package interfaces

import (
	"context"

	"github.com/avinassh/rtiman/internal/models"
)

// AccountRepository defines the contract for storing and retrieving Account data.
// This interface remains the same regardless of the backing database.
type AccountRepository interface {
	// AddAccount persists a new account and returns its store-assigned ID.
	AddAccount(ctx context.Context, account models.Account) (string, error)

	// GetAccountByUsername returns the account for the given username, or
	// (nil, nil) when no such account exists.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	// ConditionalSave writes the account's mutable fields if and only if the
	// stored document still carries expectedVersion, bumping the version on
	// success. It reports false when another writer got there first.
	ConditionalSave(ctx context.Context, account *models.Account, expectedVersion int64) (bool, error)

	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
