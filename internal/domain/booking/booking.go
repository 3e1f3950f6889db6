package booking

import (
	"time"

	"github.com/shareit-market/service-rental/internal/domain"
)

// Booking is the aggregate root for the booking domain. A booking reserves
// one item for one booker over a [start, end) window and carries an approval
// status decided by the item's owner.
type Booking struct {
	id        int64
	itemID    int64
	bookerID  int64
	start     time.Time
	end       time.Time
	status    Status
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in WAITING status. The id is assigned by
// the store on first save.
func NewBooking(bookerID, itemID int64, start, end time.Time) (*Booking, error) {
	if bookerID <= 0 {
		return nil, domain.NewValidationError("booker id is required")
	}
	if itemID <= 0 {
		return nil, domain.NewValidationError("item id is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("start/end time cannot be null")
	}
	if !end.After(start) {
		return nil, domain.NewValidationError("end time must be after start time")
	}

	now := time.Now().UTC()
	return &Booking{
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id, itemID, bookerID int64, start, end time.Time, status Status, version int64, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the booking's store-assigned identifier, zero until saved.
func (b *Booking) ID() int64 { return b.id }

// ItemID returns the id of the booked item.
func (b *Booking) ItemID() int64 { return b.itemID }

// BookerID returns the id of the user who requested the booking.
func (b *Booking) BookerID() int64 { return b.bookerID }

// Start returns the start of the booking window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the booking window.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current approval status.
func (b *Booking) Status() Status { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsBookedBy reports whether the given user is the booking's booker.
func (b *Booking) IsBookedBy(userID int64) bool {
	return b.bookerID == userID
}

// Decide records the owner's approval decision. An already approved booking
// cannot be decided again; a rejected booking may still be approved once.
func (b *Booking) Decide(approved bool) error {
	if b.status == StatusApproved {
		return domain.NewConflictError("booking is already approved")
	}
	if approved {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel withdraws a booking that is still waiting for the owner's decision.
func (b *Booking) Cancel() error {
	if b.status != StatusWaiting {
		return domain.NewInvalidStateError(string(b.status), string(StatusCanceled))
	}
	b.status = StatusCanceled
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
