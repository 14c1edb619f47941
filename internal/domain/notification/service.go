package notification

import (
	"context"
	"fmt"

	"landshare/internal/domain"
)

type Service struct {
	repo *NotificationRepository
}

func NewService(repo *NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, t NotificationType, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		IsRead:  false,
	}
	return s.repo.Create(ctx, n, data)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyDisputeFiled(ctx context.Context, userID, disputeID, bookingID int64) error {
	return s.Create(
		ctx,
		userID,
		NotifDisputeFiled,
		"A dispute was filed on your booking",
		fmt.Sprintf("A dispute was opened against booking #%d. You can respond in the dispute thread.", bookingID),
		map[string]any{
			"dispute_id": disputeID,
			"booking_id": bookingID,
		},
	)
}

func (s *Service) NotifyDisputeMessage(ctx context.Context, userID, disputeID, messageID int64) error {
	return s.Create(
		ctx,
		userID,
		NotifDisputeMessage,
		"New message in your dispute",
		"A new message was posted in a dispute you are part of.",
		map[string]any{
			"dispute_id": disputeID,
			"message_id": messageID,
		},
	)
}

func (s *Service) NotifyDisputeResolved(ctx context.Context, userID, disputeID int64, kind domain.DisputeResolution, amount float64) error {
	return s.Create(
		ctx,
		userID,
		NotifDisputeResolved,
		"Your dispute was resolved",
		fmt.Sprintf("The dispute was resolved: %s (%.2f).", kind, amount),
		map[string]any{
			"dispute_id":      disputeID,
			"resolution":      string(kind),
			"resolved_amount": amount,
		},
	)
}

func (s *Service) NotifyDisputeClosed(ctx context.Context, userID, disputeID int64, note string) error {
	msg := "The dispute was closed without a financial resolution."
	if note != "" {
		msg = msg + " Note: " + note
	}
	return s.Create(
		ctx,
		userID,
		NotifDisputeClosed,
		"Your dispute was closed",
		msg,
		map[string]any{
			"dispute_id": disputeID,
		},
	)
}

func (s *Service) NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, listingID int64) error {
	return s.Create(
		ctx,
		ownerUserID,
		NotifBookingCreated,
		"New booking",
		fmt.Sprintf("A new booking was placed on your listing #%d.", listingID),
		map[string]any{
			"booking_id": bookingID,
			"listing_id": listingID,
		},
	)
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, userID, bookingID int64, reason string) error {
	msg := "The booking was cancelled"
	if reason != "" {
		msg = msg + ". Reason: " + reason
	}
	return s.Create(
		ctx,
		userID,
		NotifBookingCancelled,
		"Booking cancelled",
		msg,
		map[string]any{
			"booking_id": bookingID,
		},
	)
}
