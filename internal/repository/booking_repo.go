package repository

import (
	"context"
	"errors"
	"time"

	"landshare/internal/domain"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ListingID          int64      `gorm:"column:listing_id"`
	OwnerID            int64      `gorm:"column:owner_id"`
	RenterID           int64      `gorm:"column:renter_id"`
	StartDate          time.Time  `gorm:"column:start_date"`
	EndDate            time.Time  `gorm:"column:end_date"`
	TotalAmount        float64    `gorm:"column:total_amount"`
	Status             string     `gorm:"column:status"`
	Notes              *string    `gorm:"column:notes"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		ListingID:          m.ListingID,
		OwnerID:            m.OwnerID,
		RenterID:           m.RenterID,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		TotalAmount:        m.TotalAmount,
		Status:             domain.BookingStatus(m.Status),
		Notes:              notes,
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		ListingID:          b.ListingID,
		OwnerID:            b.OwnerID,
		RenterID:           b.RenterID,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		Notes:              notes,
		CancellationReason: reason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetByID always reads from the database; callers relying on the current
// total amount must not cache the result.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ? OR renter_id = ?", userID, userID).
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, bookingID int64, reason string) error {
	now := time.Now()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
