package notification

import "time"

// NotificationType distinguishes the events a user can be notified about.
type NotificationType string

const (
	NotifDisputeFiled    NotificationType = "dispute_filed"
	NotifDisputeMessage  NotificationType = "dispute_message"
	NotifDisputeResolved NotificationType = "dispute_resolved"
	NotifDisputeClosed   NotificationType = "dispute_closed"

	NotifBookingCreated   NotificationType = "booking_created"
	NotifBookingCancelled NotificationType = "booking_cancelled"
)

// Notification is an in-app notification row. Delivery channels (email,
// push) are out of scope; this is persistence plus a read API.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      any              `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
