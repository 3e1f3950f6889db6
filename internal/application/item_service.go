package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-market/service-rental/internal/domain"
	bookingDomain "github.com/shareit-market/service-rental/internal/domain/booking"
	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

// SearchCache stores serialized search results. A nil cache disables
// caching; cache failures never fail the request.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context)
}

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest holds a partial item update; nil fields are unchanged.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingRefDTO is the short booking form embedded in item views.
type BookingRefDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the response representation of an item comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	ItemID     int64     `json:"itemId"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetailDTO is an item with its comments and, for the owner only, the
// last and next approved booking.
type ItemDetailDTO struct {
	ItemDTO
	Comments    []CommentDTO   `json:"comments"`
	LastBooking *BookingRefDTO `json:"lastBooking,omitempty"`
	NextBooking *BookingRefDTO `json:"nextBooking,omitempty"`
}

// CreateCommentRequest holds the text of a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemService is the application service for item listing, search and
// comments.
type ItemService struct {
	items    itemDomain.Repository
	users    userDomain.Repository
	bookings bookingDomain.Repository
	comments itemDomain.CommentRepository
	cache    SearchCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService. cache may be nil.
func NewItemService(
	items itemDomain.Repository,
	users userDomain.Repository,
	bookings bookingDomain.Repository,
	comments itemDomain.CommentRepository,
	cache SearchCache,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Create lists a new item for the given owner. The same name+description
// pair may only be listed once.
func (s *ItemService) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	existing, err := s.items.FindByNameAndDescription(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("item with name '" + req.Name + "' and description '" + req.Description + "' already exists")
	}

	i, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}

	saved, err := s.items.Save(ctx, i)
	if err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx)

	dto := toItemDTO(saved)
	return &dto, nil
}

// Update applies a partial update to an item owned by the caller.
func (s *ItemService) Update(ctx context.Context, callerID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, callerID); err != nil {
		return nil, err
	}

	i, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !i.IsOwnedBy(callerID) {
		return nil, domain.NewForbiddenError("user with id " + strconv.FormatInt(callerID, 10) + " is not allowed to update this item")
	}

	i.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, i); err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx)

	dto := toItemDTO(i)
	return &dto, nil
}

// GetDetail returns an item with its comments. Only the owner additionally
// sees the last and next approved booking; for anyone else those are never
// even computed.
func (s *ItemService) GetDetail(ctx context.Context, callerID, itemID int64) (*ItemDetailDTO, error) {
	i, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetailDTO{
		ItemDTO:  toItemDTO(i),
		Comments: toCommentDTOs(comments),
	}

	if !i.IsOwnedBy(callerID) {
		return detail, nil
	}

	approved, err := s.bookings.FindApprovedByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	detail.LastBooking = toBookingRefDTO(bookingDomain.LastBooking(approved, now))
	detail.NextBooking = toBookingRefDTO(bookingDomain.NextBooking(approved, now))
	return detail, nil
}

// ListForOwner returns one page of the caller's items, each with comments
// and last/next booking derived per item.
func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64, from, size int) ([]ItemDetailDTO, error) {
	if err := validatePageWindow(from, size); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwnerID(ctx, ownerID, pageIndex(from, size), size)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []ItemDetailDTO{}, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}

	comments, err := s.comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]CommentDTO)
	for _, c := range comments {
		commentsByItem[c.ItemID()] = append(commentsByItem[c.ItemID()], toCommentDTO(c))
	}

	approved, err := s.bookings.FindApprovedByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookingsByItem := bookingDomain.GroupByItem(approved)

	now := s.now()
	details := make([]ItemDetailDTO, len(items))
	for i, it := range items {
		group := bookingsByItem[it.ID()]
		comments := commentsByItem[it.ID()]
		if comments == nil {
			comments = []CommentDTO{}
		}
		details[i] = ItemDetailDTO{
			ItemDTO:     toItemDTO(it),
			Comments:    comments,
			LastBooking: toBookingRefDTO(bookingDomain.LastBooking(group, now)),
			NextBooking: toBookingRefDTO(bookingDomain.NextBooking(group, now)),
		}
	}
	return details, nil
}

// Search returns available items matching the text. Blank text yields an
// empty result without touching the store. Results are served from the
// cache when possible.
func (s *ItemService) Search(ctx context.Context, text string) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	key := strings.ToLower(strings.TrimSpace(text))
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var dtos []ItemDTO
			if err := json.Unmarshal(cached, &dtos); err == nil {
				return dtos, nil
			}
			s.logger.Warn("discarding malformed search cache entry", zap.String("key", key))
		}
	}

	items, err := s.items.Search(ctx, text)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dtos); err == nil {
			s.cache.Set(ctx, key, payload)
		}
	}
	return dtos, nil
}

// AddComment records feedback on an item from a user whose approved booking
// of it has already ended.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	c, err := itemDomain.NewComment(itemID, authorID, req.Text)
	if err != nil {
		return nil, err
	}

	userBookings, err := s.bookings.FindByItemAndBooker(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	completed := false
	for _, b := range userBookings {
		if b.Status() == bookingDomain.StatusApproved && b.End().Before(now) {
			completed = true
			break
		}
	}
	if !completed {
		return nil, domain.NewValidationError("user has not rented item with id " + strconv.FormatInt(itemID, 10) + " or the rental has not finished yet")
	}

	saved, err := s.comments.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	dto := toCommentDTO(saved)
	return &dto, nil
}

func (s *ItemService) invalidateSearchCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func toItemDTO(i *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          i.ID(),
		OwnerID:     i.OwnerID(),
		Name:        i.Name(),
		Description: i.Description(),
		Available:   i.Available(),
		RequestID:   i.RequestID(),
	}
}

func toBookingRefDTO(b *bookingDomain.Booking) *BookingRefDTO {
	if b == nil {
		return nil
	}
	return &BookingRefDTO{
		ID:       b.ID(),
		BookerID: b.BookerID(),
		Start:    b.Start(),
		End:      b.End(),
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		ItemID:     c.ItemID(),
		AuthorName: c.AuthorName(),
		Created:    c.Created(),
	}
}

func toCommentDTOs(comments []*itemDomain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}
