package interfaces

import (
	"context"

	"github.com/avinassh/rtiman/internal/models"
)

// RTIRequestRepository defines the contract for storing and retrieving
// RTI request documents.
type RTIRequestRepository interface {
	// AddRequest persists a new RTI request and returns its store-assigned ID.
	AddRequest(ctx context.Context, request models.RTIRequest) (string, error)

	// GetRequestByID returns the request for the given ID, or (nil, nil) when
	// the ID is unknown or malformed.
	GetRequestByID(ctx context.Context, id string) (*models.RTIRequest, error)

	// ListRequests returns every RTI request in the store.
	ListRequests(ctx context.Context) ([]models.RTIRequest, error)

	// ConditionalSave writes the request's mutable fields if and only if the
	// stored document still carries expectedVersion, bumping the version on
	// success. It reports false when another writer got there first.
	ConditionalSave(ctx context.Context, request *models.RTIRequest, expectedVersion int64) (bool, error)

	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
