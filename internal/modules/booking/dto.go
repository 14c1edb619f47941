package booking

import "time"

type CreateBookingRequest struct {
	ListingID   int64     `json:"listing_id" binding:"required"`
	OwnerID     int64     `json:"owner_id" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	TotalAmount float64   `json:"total_amount" binding:"required"`
	Notes       string    `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
