package funding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/interfaces/mocks"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/stretchr/testify/mock"
)

// memAccountStore is an in-memory AccountRepository with the same
// compare-and-swap semantics as the real repositories. failSaves makes the
// next N conditional saves report a lost race without applying.
type memAccountStore struct {
	mu        sync.Mutex
	accounts  map[string]models.Account
	failSaves int
}

func newMemAccountStore(accounts ...models.Account) *memAccountStore {
	store := &memAccountStore{accounts: make(map[string]models.Account)}
	for _, account := range accounts {
		store.accounts[account.Username] = account
	}
	return store
}

func (m *memAccountStore) AddAccount(_ context.Context, account models.Account) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Username] = account
	return account.Username, nil
}

func (m *memAccountStore) GetAccountByUsername(_ context.Context, username string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[username]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (m *memAccountStore) ConditionalSave(_ context.Context, account *models.Account, expectedVersion int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves > 0 {
		m.failSaves--
		return false, nil
	}
	current, ok := m.accounts[account.Username]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	saved := *account
	saved.Version = expectedVersion + 1
	m.accounts[account.Username] = saved
	account.Version = saved.Version
	return true, nil
}

func (m *memAccountStore) EnsureIndices(_ context.Context) error { return nil }
func (m *memAccountStore) Close(_ context.Context) error         { return nil }

func (m *memAccountStore) credits(t *testing.T, username string) int64 {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[username]
	if !ok {
		t.Fatalf("account %q not in store", username)
	}
	return account.Credits
}

// memRTIStore is the matching in-memory RTIRequestRepository.
type memRTIStore struct {
	mu        sync.Mutex
	requests  map[string]models.RTIRequest
	failSaves int
}

func newMemRTIStore(requests ...models.RTIRequest) *memRTIStore {
	store := &memRTIStore{requests: make(map[string]models.RTIRequest)}
	for _, request := range requests {
		store.requests[request.ID] = request
	}
	return store
}

func (m *memRTIStore) AddRequest(_ context.Context, request models.RTIRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := strconv.Itoa(len(m.requests) + 1)
	request.ID = id
	m.requests[id] = request
	return id, nil
}

func (m *memRTIStore) GetRequestByID(_ context.Context, id string) (*models.RTIRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &request, nil
}

func (m *memRTIStore) ListRequests(_ context.Context) ([]models.RTIRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	requests := make([]models.RTIRequest, 0, len(m.requests))
	for _, request := range m.requests {
		requests = append(requests, request)
	}
	return requests, nil
}

func (m *memRTIStore) ConditionalSave(_ context.Context, request *models.RTIRequest, expectedVersion int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves > 0 {
		m.failSaves--
		return false, nil
	}
	current, ok := m.requests[request.ID]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	saved := *request
	saved.Version = expectedVersion + 1
	m.requests[request.ID] = saved
	request.Version = saved.Version
	return true, nil
}

func (m *memRTIStore) EnsureIndices(_ context.Context) error { return nil }
func (m *memRTIStore) Close(_ context.Context) error         { return nil }

func (m *memRTIStore) funds(t *testing.T, id string) int64 {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		t.Fatalf("rti request %q not in store", id)
	}
	return request.Funds
}

// noopLogger keeps test output quiet.
type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})                          {}
func (noopLogger) Warn(string, ...interface{})                          {}
func (noopLogger) Error(string, ...interface{})                         {}
func (noopLogger) Debug(string, ...interface{})                         {}
func (noopLogger) SetLevel(string)                                      {}
func (l noopLogger) WithContext(map[string]interface{}) interfaces.Logger { return l }

func newTestService(accounts *memAccountStore, requests *memRTIStore) *Service {
	return NewService(accounts, requests, noopLogger{}, DefaultMinimumAmount, DefaultMaxAttempts)
}

func TestService_Fund(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Name: "road repair records", Version: 1})

	service := newTestService(accounts, requests)

	newBalance, err := service.Fund(context.Background(), "alice", "r1", "30")
	if err != nil {
		t.Fatalf("Fund() error = %v, want nil", err)
	}
	if newBalance != 70 {
		t.Errorf("Fund() balance = %d, want 70", newBalance)
	}
	if got := accounts.credits(t, "alice"); got != 70 {
		t.Errorf("stored credits = %d, want 70", got)
	}
	if got := requests.funds(t, "r1"); got != 30 {
		t.Errorf("stored funds = %d, want 30", got)
	}
}

func TestService_Fund_MinimumBoundary(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

	service := newTestService(accounts, requests)

	newBalance, err := service.Fund(context.Background(), "alice", "r1", "10")
	if err != nil {
		t.Fatalf("Fund() with the exact minimum error = %v, want nil", err)
	}
	if newBalance != 90 {
		t.Errorf("Fund() balance = %d, want 90", newBalance)
	}
}

func TestService_Fund_ExactBalance(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 40, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

	service := newTestService(accounts, requests)

	newBalance, err := service.Fund(context.Background(), "alice", "r1", "40")
	if err != nil {
		t.Fatalf("Fund() with amount equal to balance error = %v, want nil", err)
	}
	if newBalance != 0 {
		t.Errorf("Fund() balance = %d, want 0", newBalance)
	}
	if got := requests.funds(t, "r1"); got != 40 {
		t.Errorf("stored funds = %d, want 40", got)
	}
}

func TestService_Fund_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		rti     string
		amount  string
		wantErr error
	}{
		{
			name:    "Missing amount",
			actor:   "alice",
			rti:     "r1",
			amount:  "",
			wantErr: ErrMissingAmount,
		},
		{
			name:    "Whitespace amount",
			actor:   "alice",
			rti:     "r1",
			amount:  "   ",
			wantErr: ErrMissingAmount,
		},
		{
			name:    "Non-numeric amount",
			actor:   "alice",
			rti:     "r1",
			amount:  "abc",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "Fractional amount",
			actor:   "alice",
			rti:     "r1",
			amount:  "12.5",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "Unknown actor",
			actor:   "mallory",
			rti:     "r1",
			amount:  "30",
			wantErr: ErrActorNotFound,
		},
		{
			name:    "Unknown rti request",
			actor:   "alice",
			rti:     "nope",
			amount:  "30",
			wantErr: ErrRequestNotFound,
		},
		{
			name:    "Below minimum",
			actor:   "alice",
			rti:     "r1",
			amount:  "5",
			wantErr: ErrBelowMinimum,
		},
		{
			name:    "One under minimum",
			actor:   "alice",
			rti:     "r1",
			amount:  "9",
			wantErr: ErrBelowMinimum,
		},
		{
			name:    "Insufficient credits",
			actor:   "alice",
			rti:     "r1",
			amount:  "150",
			wantErr: ErrInsufficientCredits,
		},
		{
			name:    "Negative amount is below minimum",
			actor:   "alice",
			rti:     "r1",
			amount:  "-20",
			wantErr: ErrBelowMinimum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
			requests := newMemRTIStore(models.RTIRequest{ID: "r1", Funds: 25, Version: 1})

			service := newTestService(accounts, requests)

			_, err := service.Fund(context.Background(), tt.actor, tt.rti, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fund() error = %v, want %v", err, tt.wantErr)
			}

			// A rejection must leave both records untouched.
			if got := accounts.credits(t, "alice"); got != 100 {
				t.Errorf("stored credits after rejection = %d, want 100", got)
			}
			if got := requests.funds(t, "r1"); got != 25 {
				t.Errorf("stored funds after rejection = %d, want 25", got)
			}
		})
	}
}

func TestService_Fund_ValidationOrder(t *testing.T) {
	// Parse failures win over everything else, and existence checks win over
	// amount policy.
	tests := []struct {
		name    string
		actor   string
		rti     string
		amount  string
		wantErr error
	}{
		{
			name:    "Malformed amount beats unknown actor",
			actor:   "mallory",
			rti:     "r1",
			amount:  "abc",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "Unknown actor beats below minimum",
			actor:   "mallory",
			rti:     "r1",
			amount:  "5",
			wantErr: ErrActorNotFound,
		},
		{
			name:    "Unknown rti beats below minimum",
			actor:   "alice",
			rti:     "nope",
			amount:  "5",
			wantErr: ErrRequestNotFound,
		},
		{
			name:    "Below minimum beats insufficient credits",
			actor:   "broke",
			rti:     "r1",
			amount:  "5",
			wantErr: ErrBelowMinimum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newMemAccountStore(
				models.Account{Username: "alice", Credits: 100, Version: 1},
				models.Account{Username: "broke", Credits: 2, Version: 1},
			)
			requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

			service := newTestService(accounts, requests)

			_, err := service.Fund(context.Background(), tt.actor, tt.rti, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fund() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Fund_ParseFailureTouchesNoStore(t *testing.T) {
	// Mocks with no expectations: any repository call fails the test.
	accountRepo := mocks.NewMockAccountRepository(t)
	rtiRepo := mocks.NewMockRTIRequestRepository(t)

	service := NewService(accountRepo, rtiRepo, noopLogger{}, DefaultMinimumAmount, DefaultMaxAttempts)

	if _, err := service.Fund(context.Background(), "alice", "r1", "abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Fund() error = %v, want %v", err, ErrInvalidAmount)
	}
	if _, err := service.Fund(context.Background(), "alice", "r1", ""); !errors.Is(err, ErrMissingAmount) {
		t.Fatalf("Fund() error = %v, want %v", err, ErrMissingAmount)
	}
}

func TestService_Fund_RetriesAfterLostRace(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})
	accounts.failSaves = 1

	service := newTestService(accounts, requests)

	newBalance, err := service.Fund(context.Background(), "alice", "r1", "30")
	if err != nil {
		t.Fatalf("Fund() after one lost race error = %v, want nil", err)
	}
	if newBalance != 70 {
		t.Errorf("Fund() balance = %d, want 70", newBalance)
	}
	if got := requests.funds(t, "r1"); got != 30 {
		t.Errorf("stored funds = %d, want 30", got)
	}
}

func TestService_Fund_RetriesExhausted(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})
	accounts.failSaves = 100

	service := newTestService(accounts, requests)

	_, err := service.Fund(context.Background(), "alice", "r1", "30")
	if !errors.Is(err, ErrTransientConflict) {
		t.Fatalf("Fund() error = %v, want %v", err, ErrTransientConflict)
	}
	if got := accounts.credits(t, "alice"); got != 100 {
		t.Errorf("stored credits = %d, want 100", got)
	}
	if got := requests.funds(t, "r1"); got != 0 {
		t.Errorf("stored funds = %d, want 0", got)
	}
}

func TestService_Fund_RefundsWhenCreditKeepsLosing(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})
	requests.failSaves = 100

	service := newTestService(accounts, requests)

	_, err := service.Fund(context.Background(), "alice", "r1", "30")
	if !errors.Is(err, ErrTransientConflict) {
		t.Fatalf("Fund() error = %v, want %v", err, ErrTransientConflict)
	}

	// Every debit must have been compensated before the error surfaced.
	if got := accounts.credits(t, "alice"); got != 100 {
		t.Errorf("stored credits after refund = %d, want 100", got)
	}
	if got := requests.funds(t, "r1"); got != 0 {
		t.Errorf("stored funds = %d, want 0", got)
	}
}

func TestService_Fund_StoreUnavailable(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository(t)
	rtiRepo := mocks.NewMockRTIRequestRepository(t)

	accountRepo.On("GetAccountByUsername", mock.Anything, "alice").
		Return(nil, fmt.Errorf("connection refused"))

	service := NewService(accountRepo, rtiRepo, noopLogger{}, DefaultMinimumAmount, DefaultMaxAttempts)

	_, err := service.Fund(context.Background(), "alice", "r1", "30")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Fund() error = %v, want %v", err, ErrStoreUnavailable)
	}
}

func TestService_Fund_ConcurrentFunders(t *testing.T) {
	accounts := newMemAccountStore(
		models.Account{Username: "alice", Credits: 100, Version: 1},
		models.Account{Username: "bob", Credits: 100, Version: 1},
	)
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

	service := newTestService(accounts, requests)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	funders := []struct {
		actor  string
		amount string
	}{
		{actor: "alice", amount: "20"},
		{actor: "bob", amount: "30"},
	}
	for i, funder := range funders {
		wg.Add(1)
		go func(i int, actor, amount string) {
			defer wg.Done()
			_, errs[i] = service.Fund(context.Background(), actor, "r1", amount)
		}(i, funder.actor, funder.amount)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("funder %d error = %v, want nil", i, err)
		}
	}
	if got := requests.funds(t, "r1"); got != 50 {
		t.Errorf("stored funds = %d, want 50", got)
	}
	if got := accounts.credits(t, "alice"); got != 80 {
		t.Errorf("alice credits = %d, want 80", got)
	}
	if got := accounts.credits(t, "bob"); got != 70 {
		t.Errorf("bob credits = %d, want 70", got)
	}
}

func TestService_Fund_ConcurrentOverspend(t *testing.T) {
	// Two racing pledges of 80 against a balance of 100: exactly one may land.
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

	service := newTestService(accounts, requests)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Fund(context.Background(), "alice", "r1", "80")
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientCredits):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("got %d successes and %d insufficient-credit rejections, want 1 and 1", successes, insufficient)
	}
	if got := accounts.credits(t, "alice"); got != 20 {
		t.Errorf("alice credits = %d, want 20", got)
	}
	if got := requests.funds(t, "r1"); got != 80 {
		t.Errorf("stored funds = %d, want 80", got)
	}
}

func TestService_Fund_SameAccountConcurrentPledges(t *testing.T) {
	accounts := newMemAccountStore(models.Account{Username: "alice", Credits: 100, Version: 1})
	requests := newMemRTIStore(models.RTIRequest{ID: "r1", Version: 1})

	service := newTestService(accounts, requests)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	amounts := []string{"20", "30"}
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount string) {
			defer wg.Done()
			_, errs[i] = service.Fund(context.Background(), "alice", "r1", amount)
		}(i, amount)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("pledge %d error = %v, want nil", i, err)
		}
	}
	if got := accounts.credits(t, "alice"); got != 50 {
		t.Errorf("alice credits = %d, want 50", got)
	}
	if got := requests.funds(t, "r1"); got != 50 {
		t.Errorf("stored funds = %d, want 50", got)
	}
}
