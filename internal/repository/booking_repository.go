package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/shareit-market/service-rental/internal/domain"
	bookingDomain "github.com/shareit-market/service-rental/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"index;not null"`
	BookerID  int64     `gorm:"index;not null"`
	Start     time.Time `gorm:"column:start_time;not null;index"`
	End       time.Time `gorm:"column:end_time;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindByBookerID retrieves one page of a booker's bookings ordered by start
// descending.
func (r *GormBookingRepository) FindByBookerID(ctx context.Context, bookerID int64, page, size int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("booker_id = ?", bookerID).
		Order("start_time DESC").
		Offset(page * size).
		Limit(size).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindByOwnerID retrieves one page of the bookings placed on items owned by
// the given user, ordered by start descending.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID int64, page, size int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.start_time DESC").
		Offset(page * size).
		Limit(size).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by owner: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindApprovedByItemID retrieves all approved bookings for one item ordered
// by start ascending. Ascending order is relied on by the next-booking
// derivation.
func (r *GormBookingRepository) FindApprovedByItemID(ctx context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ?", itemID, string(bookingDomain.StatusApproved)).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings for item: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindApprovedByItemIDs retrieves all approved bookings for a batch of items
// ordered by start ascending.
func (r *GormBookingRepository) FindApprovedByItemIDs(ctx context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id IN ? AND status = ?", itemIDs, string(bookingDomain.StatusApproved)).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings for items: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindByItemAndBooker retrieves all bookings a user has placed on an item.
func (r *GormBookingRepository) FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by item and booker: %w", err)
	}
	return toDomainBookings(models), nil
}

// Save persists a new booking and returns it with its assigned id.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	model := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	return toDomainBooking(model), nil
}

// Update persists changes to an existing booking with optimistic locking.
// Concurrent decisions on the same booking cannot both succeed: the losing
// writer sees zero affected rows and gets a conflict.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"start_time": model.Start,
			"end_time":   model.End,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		Start:     b.Start(),
		End:       b.End(),
		Status:    string(b.Status()),
		Version:   b.Version(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.Start,
		m.End,
		bookingDomain.Status(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings
}
