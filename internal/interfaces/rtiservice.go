package interfaces

import (
	"context"

	"github.com/avinassh/rtiman/internal/models"
)

type RTIService interface {
	// CreateRequest stores a new RTI request with zero funds and returns its ID.
	CreateRequest(ctx context.Context, name, summary string) (string, error)

	// GetRequest returns the request for the given ID, or (nil, nil) when unknown.
	GetRequest(ctx context.Context, id string) (*models.RTIRequest, error)

	// ListRequests returns every RTI request.
	ListRequests(ctx context.Context) ([]models.RTIRequest, error)
}
