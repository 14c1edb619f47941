package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          int64         `json:"id"`
	ListingID   int64         `json:"listing_id" validate:"required"`
	OwnerID     int64         `json:"owner_id" validate:"required"`
	RenterID    int64         `json:"renter_id" validate:"required"`
	StartDate   time.Time     `json:"start_date" validate:"required"`
	EndDate     time.Time     `json:"end_date" validate:"required"`
	TotalAmount float64       `json:"total_amount" validate:"required,gte=0"`
	Status      BookingStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// IsParty reports whether userID is one of the two parties on the booking.
func (b *Booking) IsParty(userID int64) bool {
	return userID == b.OwnerID || userID == b.RenterID
}

// OtherParty returns the counterparty for userID, or 0 when userID is not
// a party on the booking.
func (b *Booking) OtherParty(userID int64) int64 {
	switch userID {
	case b.OwnerID:
		return b.RenterID
	case b.RenterID:
		return b.OwnerID
	default:
		return 0
	}
}
