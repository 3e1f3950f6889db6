package application

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-market/service-rental/internal/domain"
	bookingDomain "github.com/shareit-market/service-rental/internal/domain/booking"
	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
	"github.com/shareit-market/service-rental/internal/events"
)

// EventPublisher publishes lifecycle events. A nil publisher disables
// publishing.
type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType, key string, data interface{}) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID int64      `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

// BookingDTO is the response representation of a booking. TimeState is a
// request-scoped classification filled only by filtered listings.
type BookingDTO struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	BookerID  int64     `json:"bookerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	TimeState string    `json:"timeState,omitempty"`
}

// BookingService is the application service orchestrating the booking
// lifecycle.
type BookingService struct {
	bookings  bookingDomain.Repository
	items     itemDomain.Repository
	users     userDomain.Repository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService. publisher may be nil.
func NewBookingService(
	bookings bookingDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create places a new WAITING booking for the given booker. The item's
// availability flag is advisory: it gates creation but is not flipped by it.
func (s *BookingService) Create(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	if req.Start == nil || req.End == nil {
		return nil, domain.NewValidationError("start/end time cannot be null")
	}

	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.IsOwnedBy(bookerID) {
		// Owners cannot book their own items; reported as not-found so the
		// response does not confirm ownership structure to probing callers.
		return nil, domain.NewNotFoundError("Item", strconv.FormatInt(req.ItemID, 10))
	}
	if !item.Available() {
		return nil, domain.NewValidationError("item with id " + strconv.FormatInt(item.ID(), 10) + " is not available for booking")
	}

	b, err := bookingDomain.NewBooking(bookerID, req.ItemID, *req.Start, *req.End)
	if err != nil {
		return nil, err
	}

	saved, err := s.bookings.Save(ctx, b)
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, saved)

	dto := toBookingDTO(saved)
	return &dto, nil
}

// SetStatus records the item owner's approval decision on a booking.
func (s *BookingService) SetStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(ownerID) {
		return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(bookingID, 10))
	}

	if err := b.Decide(approved); err != nil {
		return nil, err
	}

	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	s.publishBookingEvent(ctx, eventType, b)

	dto := toBookingDTO(b)
	return &dto, nil
}

// Cancel lets the booker withdraw their own booking while it is still
// waiting for the owner's decision.
func (s *BookingService) Cancel(ctx context.Context, bookerID, bookingID int64) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsBookedBy(bookerID) {
		return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(bookingID, 10))
	}

	if err := b.Cancel(); err != nil {
		return nil, err
	}

	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCanceled, b)

	dto := toBookingDTO(b)
	return &dto, nil
}

// Get retrieves a booking visible to its booker or the item's owner. Anyone
// else gets not-found, never forbidden.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID int64) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, callerID); err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}
	if !b.IsBookedBy(callerID) && !item.IsOwnedBy(callerID) {
		return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(bookingID, 10))
	}

	dto := toBookingDTO(b)
	return &dto, nil
}

// ListSent returns the caller's own bookings matching the state keyword,
// newest start first.
func (s *BookingService) ListSent(ctx context.Context, callerID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, callerID, state, from, size, s.bookings.FindByBookerID)
}

// ListReceived returns the bookings placed on the caller's items matching
// the state keyword, newest start first.
func (s *BookingService) ListReceived(ctx context.Context, callerID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, callerID, state, from, size, s.bookings.FindByOwnerID)
}

func (s *BookingService) list(
	ctx context.Context,
	callerID int64,
	state string,
	from, size int,
	fetch func(ctx context.Context, userID int64, page, size int) ([]*bookingDomain.Booking, error),
) ([]BookingDTO, error) {
	if err := validatePageWindow(from, size); err != nil {
		return nil, err
	}

	filter, err := bookingDomain.ParseListFilter(state)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, callerID); err != nil {
		return nil, err
	}

	page, err := fetch(ctx, callerID, pageIndex(from, size), size)
	if err != nil {
		return nil, err
	}

	classified := bookingDomain.FilterByState(page, filter, s.now())
	dtos := make([]BookingDTO, len(classified))
	for i, c := range classified {
		dtos[i] = toBookingDTO(c.Booking)
		dtos[i].TimeState = string(c.TimeState)
	}
	return dtos, nil
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, b *bookingDomain.Booking) {
	if s.publisher == nil {
		return
	}
	evt := events.BookingEvent{
		BookingID:  b.ID(),
		ItemID:     b.ItemID(),
		BookerID:   b.BookerID(),
		Status:     string(b.Status()),
		Start:      b.Start(),
		End:        b.End(),
		OccurredAt: time.Now().UTC(),
	}
	key := strconv.FormatInt(b.ID(), 10)
	if err := s.publisher.Publish(ctx, events.TopicBookingEvents, eventType, key, evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.Int64("booking_id", b.ID()),
			zap.Error(err),
		)
	}
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:       b.ID(),
		ItemID:   b.ItemID(),
		BookerID: b.BookerID(),
		Start:    b.Start(),
		End:      b.End(),
		Status:   string(b.Status()),
	}
}
