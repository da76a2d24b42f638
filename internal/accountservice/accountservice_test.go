package accountservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/interfaces/mocks"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type testLogger struct{}

func (testLogger) Info(string, ...interface{})                            {}
func (testLogger) Warn(string, ...interface{})                            {}
func (testLogger) Error(string, ...interface{})                           {}
func (testLogger) Debug(string, ...interface{})                           {}
func (testLogger) SetLevel(string)                                        {}
func (l testLogger) WithContext(map[string]interface{}) interfaces.Logger { return l }

func TestAccountService_RegisterAccount(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantErr    bool
		wantCredit int64
	}{
		{
			name:       "Successful registration",
			wantCredit: DefaultStartingCredits,
		},
		{
			name:    "Repository rejects duplicate",
			repoErr: fmt.Errorf("account already exists"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository(t)
			repo.On("AddAccount", mock.Anything, mock.MatchedBy(func(account models.Account) bool {
				// The service must never hand the repo a plaintext password.
				return account.Username == "testuser" &&
					account.Password != "testpass123" &&
					account.Credits == DefaultStartingCredits &&
					account.Version == 1
			})).Return("account-id-1", tt.repoErr)

			service := NewAccountService(repo, testLogger{}, DefaultStartingCredits)

			account, err := service.RegisterAccount(context.Background(), "testuser", "testpass123")
			if (err != nil) != tt.wantErr {
				t.Fatalf("RegisterAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if account.ID != "account-id-1" {
				t.Errorf("RegisterAccount() ID = %q, want %q", account.ID, "account-id-1")
			}
			if account.Credits != tt.wantCredit {
				t.Errorf("RegisterAccount() credits = %d, want %d", account.Credits, tt.wantCredit)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("testpass123")); err != nil {
				t.Errorf("stored password is not a hash of the input: %v", err)
			}
		})
	}
}

func TestAccountService_AuthenticateAccount(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	stored := &models.Account{
		ID:       "account-id-1",
		Username: "testuser",
		Password: string(hashedPassword),
		Credits:  42,
		Version:  3,
	}

	tests := []struct {
		name     string
		username string
		password string
		account  *models.Account
		repoErr  error
		wantErr  bool
	}{
		{
			name:     "Correct credentials",
			username: "testuser",
			password: "testpass123",
			account:  stored,
		},
		{
			name:     "Wrong password",
			username: "testuser",
			password: "wrongpass123",
			account:  stored,
			wantErr:  true,
		},
		{
			name:     "Unknown user",
			username: "whoisthis",
			password: "testpass123",
			wantErr:  true,
		},
		{
			name:     "Repository failure",
			username: "testuser",
			password: "testpass123",
			repoErr:  fmt.Errorf("connection refused"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository(t)
			repo.On("GetAccountByUsername", mock.Anything, tt.username).
				Return(tt.account, tt.repoErr)

			service := NewAccountService(repo, testLogger{}, DefaultStartingCredits)

			account, err := service.AuthenticateAccount(context.Background(), tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AuthenticateAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if account == nil {
				t.Fatal("AuthenticateAccount() returned nil account for valid credentials")
			}
			if account.Username != "testuser" || account.Credits != 42 {
				t.Errorf("AuthenticateAccount() = %+v, want stored account", account)
			}
		})
	}
}
