package rtiservice

import (
	"context"
	"fmt"

	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models"
	"github.com/avinassh/rtiman/pkg/helper"
)

type RTIService struct {
	Repo   interfaces.RTIRequestRepository
	Logger interfaces.Logger
}

// NewRTIService creates a new RTIService instance.
func NewRTIService(repo interfaces.RTIRequestRepository, logger interfaces.Logger) *RTIService {
	return &RTIService{
		Repo:   repo,
		Logger: logger,
	}
}

// CreateRequest stores a new RTI request with zero funds and returns its ID.
func (s *RTIService) CreateRequest(ctx context.Context, name, summary string) (string, error) {
	funcName := helper.GetFuncName()

	request := models.NewRTIRequest(name, summary)
	requestID, err := s.Repo.AddRequest(ctx, *request)
	if err != nil {
		s.Logger.Error(ErrFailedToCreateRequest, "func", funcName, "name", name, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToCreateRequest, err)
	}

	s.Logger.Info("RTI request created", "func", funcName, "ID", requestID, "name", name)
	return requestID, nil
}

// GetRequest returns the request for the given ID, or (nil, nil) when unknown.
func (s *RTIService) GetRequest(ctx context.Context, id string) (*models.RTIRequest, error) {
	funcName := helper.GetFuncName()

	request, err := s.Repo.GetRequestByID(ctx, id)
	if err != nil {
		s.Logger.Error(ErrRetrievingRequest, "func", funcName, "ID", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingRequest, err)
	}
	return request, nil
}

// ListRequests returns every RTI request.
func (s *RTIService) ListRequests(ctx context.Context) ([]models.RTIRequest, error) {
	funcName := helper.GetFuncName()

	requests, err := s.Repo.ListRequests(ctx)
	if err != nil {
		s.Logger.Error(ErrListingRequests, "func", funcName, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrListingRequests, err)
	}
	return requests, nil
}
