// Package funding implements the credit transfer from an account's balance to
// an RTI request's fund total: an ordered validation chain followed by a
// version-guarded read-modify-write on both records.
package funding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/pkg/helper"
)

const (
	// DefaultMinimumAmount is the smallest pledge accepted when the config
	// leaves the threshold unset.
	DefaultMinimumAmount = 10
	// DefaultMaxAttempts bounds the retry loop on conditional-save conflicts.
	DefaultMaxAttempts = 3
)

// Service coordinates the two stores. It owns no persistent state of its own;
// all record copies are transient to a single Fund call.
type Service struct {
	Accounts interfaces.AccountRepository
	Requests interfaces.RTIRequestRepository
	Logger   interfaces.Logger

	minimumAmount int64
	maxAttempts   int
}

// NewService creates a funding Service with the given pledge policy.
// Non-positive policy values fall back to the defaults.
func NewService(accounts interfaces.AccountRepository, requests interfaces.RTIRequestRepository,
	logger interfaces.Logger, minimumAmount int64, maxAttempts int,
) *Service {
	if minimumAmount <= 0 {
		minimumAmount = DefaultMinimumAmount
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Service{
		Accounts:      accounts,
		Requests:      requests,
		Logger:        logger,
		minimumAmount: minimumAmount,
		maxAttempts:   maxAttempts,
	}
}

// Fund validates and applies a credit transfer of rawAmount from the actor's
// balance to the request's funds and returns the actor's new balance.
//
// The checks run in order and the first failure wins: amount present, amount
// parses, actor exists, request exists, amount meets the minimum, amount
// within balance. Nothing is written until every check passes, so any
// rejection can be retried without side effects. The apply step is a pair of
// version-guarded saves; when one loses a race the whole load-validate-apply
// cycle reruns against fresh records, at most maxAttempts times.
func (s *Service) Fund(ctx context.Context, actorUsername, requestID, rawAmount string) (int64, error) {
	funcName := helper.GetFuncName()

	trimmed := strings.TrimSpace(rawAmount)
	if trimmed == "" {
		return 0, ErrMissingAmount
	}
	amount, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		newBalance, err := s.apply(ctx, actorUsername, requestID, amount)
		if errors.Is(err, ErrTransientConflict) {
			s.Logger.Warn("Funding attempt lost a write race, retrying",
				"func", funcName, "user", actorUsername, "rti", requestID, "attempt", attempt)
			continue
		}
		if err != nil {
			return 0, err
		}

		s.Logger.Info("RTI request funded",
			"func", funcName, "user", actorUsername, "rti", requestID,
			"amount", amount, "balance", newBalance)
		return newBalance, nil
	}

	s.Logger.Error("Funding retries exhausted",
		"func", funcName, "user", actorUsername, "rti", requestID)
	return 0, ErrTransientConflict
}

// apply runs one load-validate-apply cycle against fresh records.
func (s *Service) apply(ctx context.Context, actorUsername, requestID string, amount int64) (int64, error) {
	account, err := s.Accounts.GetAccountByUsername(ctx, actorUsername)
	if err != nil {
		return 0, fmt.Errorf("%w: loading account: %v", ErrStoreUnavailable, err)
	}
	if account == nil {
		return 0, ErrActorNotFound
	}

	request, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return 0, fmt.Errorf("%w: loading rti request: %v", ErrStoreUnavailable, err)
	}
	if request == nil {
		return 0, ErrRequestNotFound
	}

	if amount < s.minimumAmount {
		return 0, ErrBelowMinimum
	}
	if amount > account.Credits {
		return 0, ErrInsufficientCredits
	}

	// Debit first: a half-applied transfer must never show credits that were
	// not taken from anyone.
	debited := *account
	debited.Credits = account.Credits - amount
	saved, err := s.Accounts.ConditionalSave(ctx, &debited, account.Version)
	if err != nil {
		return 0, fmt.Errorf("%w: debiting account: %v", ErrStoreUnavailable, err)
	}
	if !saved {
		return 0, ErrTransientConflict
	}

	credited := *request
	credited.Funds = request.Funds + amount
	saved, err = s.Requests.ConditionalSave(ctx, &credited, request.Version)
	if err == nil && saved {
		return debited.Credits, nil
	}

	// The debit landed but the credit did not; put the money back before
	// reporting anything, otherwise a rejection would have mutated state.
	if rerr := s.refund(ctx, actorUsername, amount); rerr != nil {
		return 0, fmt.Errorf("%w: crediting rti request failed and refund did not apply: %v", ErrStoreUnavailable, rerr)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: crediting rti request: %v", ErrStoreUnavailable, err)
	}
	return 0, ErrTransientConflict
}

// refund compensates a debit whose matching credit never landed.
func (s *Service) refund(ctx context.Context, actorUsername string, amount int64) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		account, err := s.Accounts.GetAccountByUsername(ctx, actorUsername)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("account %q disappeared mid-refund", actorUsername)
		}

		restored := *account
		restored.Credits = account.Credits + amount
		saved, err := s.Accounts.ConditionalSave(ctx, &restored, account.Version)
		if err != nil {
			return err
		}
		if saved {
			return nil
		}
	}
	return fmt.Errorf("refund of %d credits to %q kept conflicting", amount, actorUsername)
}
