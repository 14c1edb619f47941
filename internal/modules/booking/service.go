package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"landshare/internal/domain"
	"landshare/internal/repository"
)

type Service struct {
	bookings BookingRepository
	identity IdentityProvider
	disputes DisputeCloser
	notifs   NotificationSender
}

func NewService(
	bookings BookingRepository,
	identity IdentityProvider,
	disputes DisputeCloser,
	notifs NotificationSender,
) *Service {
	return &Service{
		bookings: bookings,
		identity: identity,
		disputes: disputes,
		notifs:   notifs,
	}
}

// Create books a listing for the acting renter.
func (s *Service) Create(ctx context.Context, actorID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrValidation
	}
	if req.TotalAmount < 0 {
		return nil, ErrValidation
	}
	if req.OwnerID == actorID {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		ListingID:   req.ListingID,
		OwnerID:     req.OwnerID,
		RenterID:    actorID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalAmount: req.TotalAmount,
		Status:      domain.BookingPending,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b.OwnerID, b.ID, b.ListingID)
	}

	return b, nil
}

// Get returns a booking to its parties or to staff; others get NotFound.
func (s *Service) Get(ctx context.Context, actorID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !b.IsParty(actorID) {
		isStaff, err := s.identity.HasStaffCapability(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !isStaff {
			return nil, ErrNotFound
		}
	}
	return b, nil
}

// ListMine returns the actor's bookings on either side of the transaction.
func (s *Service) ListMine(ctx context.Context, actorID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.GetByUserID(ctx, actorID, limit, offset)
}

// Cancel cancels a booking with a mandatory reason. Any live dispute on the
// booking is force-closed with a system note so it cannot outlive the
// booking it references.
func (s *Service) Cancel(ctx context.Context, actorID, bookingID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.Get(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.CancelWithReason(ctx, bookingID, reason); err != nil {
		return nil, err
	}

	if s.disputes != nil {
		note := "booking was cancelled: " + reason
		if err := s.disputes.ForceCloseForBooking(ctx, bookingID, note); err != nil {
			log.Printf("level=error msg=failed to force-close dispute for cancelled booking booking_id=%d err=%v", bookingID, err)
		}
	}

	if s.notifs != nil {
		if other := b.OtherParty(actorID); other > 0 {
			_ = s.notifs.NotifyBookingCancelled(ctx, other, bookingID, reason)
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}
