package booking

import "context"

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByBookerID retrieves one page of a booker's bookings ordered by
	// start descending.
	FindByBookerID(ctx context.Context, bookerID int64, page, size int) ([]*Booking, error)

	// FindByOwnerID retrieves one page of the bookings placed on items owned
	// by the given user, ordered by start descending.
	FindByOwnerID(ctx context.Context, ownerID int64, page, size int) ([]*Booking, error)

	// FindApprovedByItemID retrieves all approved bookings for one item
	// ordered by start ascending.
	FindApprovedByItemID(ctx context.Context, itemID int64) ([]*Booking, error)

	// FindApprovedByItemIDs retrieves all approved bookings for a batch of
	// items ordered by start ascending.
	FindApprovedByItemIDs(ctx context.Context, itemIDs []int64) ([]*Booking, error)

	// FindByItemAndBooker retrieves all bookings a user has placed on an item.
	FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*Booking, error)

	// Save persists a new booking and returns it with its assigned id.
	Save(ctx context.Context, b *Booking) (*Booking, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
