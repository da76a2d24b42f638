package interfaces

import "context"

// FundingService moves credits from an account to an RTI request's fund total.
type FundingService interface {
	// Fund validates and applies a credit transfer of rawAmount from the
	// actor's balance to the request's funds, returning the actor's new
	// balance. Rejections are reported through the funding package's sentinel
	// errors and leave both records untouched.
	Fund(ctx context.Context, actorUsername, requestID, rawAmount string) (int64, error)
}
