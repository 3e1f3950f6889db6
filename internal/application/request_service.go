package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
	requestDomain "github.com/shareit-market/service-rental/internal/domain/request"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

// CreateRequestRequest holds the description of a wanted item.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// RequestItemDTO is the short item form embedded in request views.
type RequestItemDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"ownerId"`
	RequestID int64  `json:"requestId"`
}

// RequestDTO is the response representation of an item request together
// with the items listed to fulfill it.
type RequestDTO struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	RequestorID int64            `json:"requestorId"`
	Created     time.Time        `json:"created"`
	Items       []RequestItemDTO `json:"items"`
}

// RequestService is the application service for item requests.
type RequestService struct {
	requests requestDomain.Repository
	users    userDomain.Repository
	items    itemDomain.Repository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.Repository,
	users userDomain.Repository,
	items itemDomain.Repository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		items:    items,
		logger:   logger,
	}
}

// Create posts a new item request for the given user.
func (s *RequestService) Create(ctx context.Context, userID int64, req CreateRequestRequest) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := requestDomain.NewItemRequest(userID, req.Description)
	if err != nil {
		return nil, err
	}

	saved, err := s.requests.Save(ctx, r)
	if err != nil {
		return nil, err
	}

	dto := toRequestDTO(saved, nil)
	return &dto, nil
}

// ListOwn returns the caller's requests, newest first, each with the items
// fulfilling it.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requests.FindByRequestorID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// Get returns one request with its fulfilling items; any existing user may
// look it up.
func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	dtos, err := s.withItems(ctx, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// ListOthers returns one page of other users' requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size int) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := validatePageWindow(from, size); err != nil {
		return nil, err
	}

	requests, err := s.requests.FindAllExcludingRequestor(ctx, userID, pageIndex(from, size), size)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// withItems groups the items fulfilling each request by request id and
// attaches them.
func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.ItemRequest) ([]RequestDTO, error) {
	if len(requests) == 0 {
		return []RequestDTO{}, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}

	items, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	itemsByRequest := make(map[int64][]RequestItemDTO)
	for _, it := range items {
		if it.RequestID() == nil {
			continue
		}
		rid := *it.RequestID()
		itemsByRequest[rid] = append(itemsByRequest[rid], RequestItemDTO{
			ID:        it.ID(),
			Name:      it.Name(),
			OwnerID:   it.OwnerID(),
			RequestID: rid,
		})
	}

	dtos := make([]RequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toRequestDTO(r, itemsByRequest[r.ID()])
	}
	return dtos, nil
}

func toRequestDTO(r *requestDomain.ItemRequest, items []RequestItemDTO) RequestDTO {
	if items == nil {
		items = []RequestItemDTO{}
	}
	return RequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		RequestorID: r.RequestorID(),
		Created:     r.Created(),
		Items:       items,
	}
}
