package dispute

import (
	"context"
	"time"

	"landshare/internal/domain"
	"landshare/internal/repository"
)

// DisputeRepository defines the persistence operations for disputes and
// their message threads.
type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetByID(ctx context.Context, id int64) (*domain.Dispute, error)
	HasOpenDispute(ctx context.Context, bookingID int64) (bool, error)
	FindOpenByBookingID(ctx context.Context, bookingID int64) (*domain.Dispute, error)
	List(ctx context.Context, f repository.DisputeFilter) ([]domain.Dispute, error)
	MarkUnderReview(ctx context.Context, disputeID, version int64) error
	MarkClosed(ctx context.Context, disputeID, version int64, note string) error
	MarkResolved(ctx context.Context, disputeID, version int64, u repository.ResolutionUpdate) error
	CreateMessage(ctx context.Context, m *domain.DisputeMessage) error
	ListMessages(ctx context.Context, disputeID int64, includeInternal bool) ([]domain.DisputeMessage, error)
}

// BookingReader is the booking provider collaborator. GetByID must hit the
// store; resolution-time amount checks rely on a fresh read.
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// IdentityProvider exposes the staff capability claim.
type IdentityProvider interface {
	HasStaffCapability(ctx context.Context, userID int64) (bool, error)
}

// Reconciler is the external financial reconciliation service. It is
// invoked synchronously, exactly once, before the dispute's terminal state
// is committed. The dispute id doubles as an idempotency key.
type Reconciler interface {
	ApplyResolution(ctx context.Context, disputeID, bookingID int64, amount float64, kind domain.DisputeResolution) error
}

// NotificationSender delivers fire-and-forget notifications; failures are
// logged by the implementation and never surface to dispute callers.
type NotificationSender interface {
	NotifyDisputeFiled(ctx context.Context, userID, disputeID, bookingID int64) error
	NotifyDisputeMessage(ctx context.Context, userID, disputeID, messageID int64) error
	NotifyDisputeResolved(ctx context.Context, userID, disputeID int64, kind domain.DisputeResolution, amount float64) error
	NotifyDisputeClosed(ctx context.Context, userID, disputeID int64, note string) error
}

// clock lets tests pin resolution timestamps.
type clock func() time.Time
