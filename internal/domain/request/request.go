package request

import (
	"strings"
	"time"

	"github.com/shareit-market/service-rental/internal/domain"
)

// ItemRequest is a wanted-item posting. Other users may list items that
// fulfill it; those items carry the request's id.
type ItemRequest struct {
	id          int64
	description string
	requestorID int64
	created     time.Time
}

// NewItemRequest creates a new ItemRequest with validated fields.
func NewItemRequest(requestorID int64, description string) (*ItemRequest, error) {
	if requestorID <= 0 {
		return nil, domain.NewValidationError("requestor id is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidationError("request description cannot be empty")
	}
	return &ItemRequest{
		description: description,
		requestorID: requestorID,
		created:     time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data.
func Reconstruct(id int64, description string, requestorID int64, created time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		description: description,
		requestorID: requestorID,
		created:     created,
	}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) RequestorID() int64  { return r.requestorID }
func (r *ItemRequest) Created() time.Time  { return r.created }
