package rtiservice

const (
	// Error messages for RTI service operations
	ErrFailedToCreateRequest = "failed to create rti request"
	ErrRetrievingRequest     = "error retrieving rti request"
	ErrListingRequests       = "error listing rti requests"
)
