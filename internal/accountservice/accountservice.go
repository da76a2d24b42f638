package accountservice

import (
	"context"
	"fmt"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/avinassh/rtiman/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

// DefaultStartingCredits is granted to every new account when the config
// leaves the value unset.
const DefaultStartingCredits = 100

type AccountService struct {
	Repo            interfaces.AccountRepository
	Logger          interfaces.Logger
	StartingCredits int64
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(repo interfaces.AccountRepository, logger interfaces.Logger, startingCredits int64) *AccountService {
	if startingCredits <= 0 {
		startingCredits = DefaultStartingCredits
	}
	return &AccountService{
		Repo:            repo,
		Logger:          logger,
		StartingCredits: startingCredits,
	}
}

// RegisterAccount hashes the password and creates the account with the
// starting credit balance, returning the stored record.
func (s *AccountService) RegisterAccount(ctx context.Context, username, password string) (*models.Account, error) {
	funcName := helper.GetFuncName()
	s.Logger.Info("Registering account", "func", funcName, "user", username)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	account := models.NewAccount(username, string(hashedPassword), s.StartingCredits)

	accountID, err := s.Repo.AddAccount(ctx, *account)
	if err != nil {
		s.Logger.Error(ErrFailedToCreateAccount, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreateAccount, err)
	}
	account.ID = accountID

	s.Logger.Info("Account registered successfully", "func", funcName, "user", username, "ID", accountID)
	return account, nil
}

// AuthenticateAccount verifies the credentials and returns the stored account
// so callers can seed the session with the current balance.
func (s *AccountService) AuthenticateAccount(ctx context.Context, username, password string) (*models.Account, error) {
	funcName := helper.GetFuncName()

	account, err := s.Repo.GetAccountByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingAccount, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingAccount, err)
	}
	if account == nil {
		s.Logger.Warn(ErrAccountNotFound, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s", ErrAccountNotFound)
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password))
	if err != nil {
		s.Logger.Warn(ErrInvalidPassword, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s: %w", ErrInvalidPassword, err)
	}

	s.Logger.Info("Account authenticated successfully", "func", funcName, "user", username)
	return account, nil
}
