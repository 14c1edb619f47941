package booking

import (
	"context"

	"landshare/internal/domain"
)

// BookingRepository defines the persistence operations the module needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	CancelWithReason(ctx context.Context, bookingID int64, reason string) error
}

type IdentityProvider interface {
	HasStaffCapability(ctx context.Context, userID int64) (bool, error)
}

// DisputeCloser force-closes a live dispute when its booking is cancelled
// out from under it.
type DisputeCloser interface {
	ForceCloseForBooking(ctx context.Context, bookingID int64, note string) error
}

type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, listingID int64) error
	NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error
}
