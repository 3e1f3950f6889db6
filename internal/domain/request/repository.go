package request

import "context"

// Repository defines the persistence contract for item requests.
type Repository interface {
	// FindByID retrieves a request by its identifier.
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)

	// FindByRequestorID retrieves a user's own requests ordered by creation
	// time descending.
	FindByRequestorID(ctx context.Context, requestorID int64) ([]*ItemRequest, error)

	// FindAllExcludingRequestor retrieves one page of other users' requests
	// ordered by creation time descending.
	FindAllExcludingRequestor(ctx context.Context, requestorID int64, page, size int) ([]*ItemRequest, error)

	// Save persists a new request and returns it with its assigned id.
	Save(ctx context.Context, r *ItemRequest) (*ItemRequest, error)
}
