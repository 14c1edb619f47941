package dispute

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"landshare/internal/domain"
	"landshare/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maxContentLen     = 5000
	maxAttachments    = 10
	maxEvidenceItems  = 20
	maxDescriptionLen = 10000
)

type Service struct {
	disputes   DisputeRepository
	bookings   BookingReader
	identity   IdentityProvider
	reconciler Reconciler
	notifs     NotificationSender
	now        clock
}

func NewService(
	disputes DisputeRepository,
	bookings BookingReader,
	identity IdentityProvider,
	reconciler Reconciler,
	notifs NotificationSender,
) *Service {
	return &Service{
		disputes:   disputes,
		bookings:   bookings,
		identity:   identity,
		reconciler: reconciler,
		notifs:     notifs,
		now:        time.Now,
	}
}

// authorize loads the dispute and its booking and computes the actor's
// role. Actors with role none get ErrNotFound, never ErrNotAuthorized, so
// the dispute's existence is not leaked.
func (s *Service) authorize(ctx context.Context, actorID, disputeID int64) (*domain.Dispute, *domain.Booking, domain.DisputeRole, error) {
	d, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeNotFound) {
			return nil, nil, domain.RoleNone, ErrNotFound
		}
		return nil, nil, domain.RoleNone, err
	}

	b, err := s.bookings.GetByID(ctx, d.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, nil, domain.RoleNone, ErrNotFound
		}
		return nil, nil, domain.RoleNone, err
	}

	isStaff, err := s.identity.HasStaffCapability(ctx, actorID)
	if err != nil {
		return nil, nil, domain.RoleNone, err
	}

	role := ResolveRole(actorID, isStaff, d, b)
	if !canRead(role) {
		return nil, nil, domain.RoleNone, ErrNotFound
	}
	return d, b, role, nil
}

// requireStaff maps non-staff roles onto the right error: parties are told
// they may not act, outsiders are told nothing exists.
func requireStaff(role domain.DisputeRole) error {
	if role == domain.RoleStaff {
		return nil
	}
	return ErrNotAuthorized
}

func validateRefs(refs []string, max int) error {
	if len(refs) > max {
		return ErrInvalidContent
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return ErrInvalidContent
		}
	}
	return nil
}

// File opens a dispute against a booking. The filer must be a party on the
// booking; at most one non-terminal dispute may exist per booking.
func (s *Service) File(ctx context.Context, actorID int64, req FileDisputeRequest) (*domain.Dispute, error) {
	if !req.Reason.Valid() {
		return nil, ErrValidation
	}
	description := strings.TrimSpace(req.Description)
	if description == "" || len(description) > maxDescriptionLen {
		return nil, ErrValidation
	}
	if err := validateRefs(req.Evidence, maxEvidenceItems); err != nil {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.IsParty(actorID) {
		// Non-parties cannot learn whether the booking exists.
		return nil, ErrNotFound
	}

	if req.RequestedAmount != nil {
		amt := roundCents(*req.RequestedAmount)
		if amt < 0 || amt > roundCents(b.TotalAmount) {
			return nil, ErrValidation
		}
	}

	open, err := s.disputes.HasOpenDispute(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDisputeExists
	}

	d := &domain.Dispute{
		BookingID:       req.BookingID,
		FiledByID:       actorID,
		Reason:          req.Reason,
		Description:     description,
		Evidence:        req.Evidence,
		RequestedAmount: req.RequestedAmount,
		Status:          domain.DisputeOpen,
		Version:         1,
		CreatedAt:       s.now(),
	}

	if err := s.disputes.Create(ctx, d); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_one_open_dispute_per_booking" {
				return nil, ErrDisputeExists
			}
		}
		return nil, err
	}

	if s.notifs != nil {
		if counterparty := b.OtherParty(actorID); counterparty > 0 {
			_ = s.notifs.NotifyDisputeFiled(ctx, counterparty, d.ID, b.ID)
		}
	}

	return d, nil
}

// Get returns the dispute along with the actor's computed role.
func (s *Service) Get(ctx context.Context, actorID, disputeID int64) (*domain.Dispute, domain.DisputeRole, error) {
	d, _, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, domain.RoleNone, err
	}
	return d, role, nil
}

// List returns disputes visible to the actor. Staff see every dispute;
// parties see only disputes on bookings they belong to.
func (s *Service) List(ctx context.Context, actorID int64, f ListFilter) ([]domain.Dispute, error) {
	isStaff, err := s.identity.HasStaffCapability(ctx, actorID)
	if err != nil {
		return nil, err
	}

	rf := repository.DisputeFilter{
		Status:    f.Status,
		BookingID: f.BookingID,
		Limit:     f.Limit,
		Offset:    f.Offset,
	}
	if !isStaff {
		rf.ParticipantID = &actorID
	}
	return s.disputes.List(ctx, rf)
}

// AppendMessage adds an immutable entry to the dispute thread. Internal
// messages are staff-only; a non-staff request for one is rejected outright
// rather than silently downgraded.
func (s *Service) AppendMessage(ctx context.Context, actorID, disputeID int64, req AppendMessageRequest) (*domain.DisputeMessage, error) {
	d, b, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, err
	}
	if !canWriteMessages(role) {
		return nil, ErrNotAuthorized
	}
	if d.Status.IsTerminal() {
		return nil, ErrDisputeClosed
	}
	if req.IsInternal && role != domain.RoleStaff {
		return nil, ErrNotAuthorized
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > maxContentLen {
		return nil, ErrInvalidContent
	}
	if err := validateRefs(req.Attachments, maxAttachments); err != nil {
		return nil, err
	}

	m := &domain.DisputeMessage{
		DisputeID:   d.ID,
		SenderID:    actorID,
		Content:     content,
		Attachments: req.Attachments,
		IsInternal:  req.IsInternal,
		CreatedAt:   s.now(),
	}
	if err := s.disputes.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	if s.notifs != nil && !m.IsInternal {
		for _, uid := range []int64{b.OwnerID, b.RenterID} {
			if uid != actorID && uid > 0 {
				_ = s.notifs.NotifyDisputeMessage(ctx, uid, d.ID, m.ID)
			}
		}
	}

	return m, nil
}

// ListMessages returns the thread in creation order. Internal messages are
// filtered out at this read boundary for non-staff actors.
func (s *Service) ListMessages(ctx context.Context, actorID, disputeID int64) ([]domain.DisputeMessage, error) {
	d, _, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, err
	}
	return s.disputes.ListMessages(ctx, d.ID, role == domain.RoleStaff)
}

// MarkUnderReview signals active staff investigation (OPEN -> UNDER_REVIEW).
func (s *Service) MarkUnderReview(ctx context.Context, actorID, disputeID int64) (*domain.Dispute, error) {
	d, _, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(role); err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, domain.DisputeUnderReview) {
		return nil, illegalTransition(d.Status, domain.DisputeUnderReview)
	}

	if err := s.disputes.MarkUnderReview(ctx, d.ID, d.Version); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.disputes.GetByID(ctx, d.ID)
}

// Close terminates a withdrawn or invalid dispute without a financial
// resolution.
func (s *Service) Close(ctx context.Context, actorID, disputeID int64, note string) (*domain.Dispute, error) {
	d, b, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(role); err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, domain.DisputeClosed) {
		return nil, illegalTransition(d.Status, domain.DisputeClosed)
	}

	if err := s.disputes.MarkClosed(ctx, d.ID, d.Version, strings.TrimSpace(note)); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		for _, uid := range []int64{b.OwnerID, b.RenterID} {
			if uid > 0 {
				_ = s.notifs.NotifyDisputeClosed(ctx, uid, d.ID, note)
			}
		}
	}

	return s.disputes.GetByID(ctx, d.ID)
}

// Resolve commits the binding financial outcome of a dispute. The booking
// total is re-read here, not taken from filing time; the reconciliation
// collaborator runs before the terminal state is committed, and a failure
// leaves the dispute untouched.
func (s *Service) Resolve(ctx context.Context, actorID, disputeID int64, req ResolveRequest) (*domain.Dispute, error) {
	d, b, role, err := s.authorize(ctx, actorID, disputeID)
	if err != nil {
		return nil, err
	}
	if err := requireStaff(role); err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, domain.DisputeResolved) {
		return nil, illegalTransition(d.Status, domain.DisputeResolved)
	}

	amount := roundCents(req.ResolvedAmount)
	if err := ValidateResolutionPayload(req.Resolution, amount, b.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.reconciler.ApplyResolution(ctx, d.ID, d.BookingID, amount, req.Resolution); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
	}

	update := repository.ResolutionUpdate{
		Resolution:     req.Resolution,
		ResolvedAmount: amount,
		Notes:          strings.TrimSpace(req.Notes),
		ResolvedByID:   actorID,
		ResolvedAt:     s.now(),
	}
	if err := s.disputes.MarkResolved(ctx, d.ID, d.Version, update); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		for _, uid := range []int64{b.OwnerID, b.RenterID} {
			if uid > 0 {
				_ = s.notifs.NotifyDisputeResolved(ctx, uid, d.ID, req.Resolution, amount)
			}
		}
	}

	return s.disputes.GetByID(ctx, d.ID)
}

// ForceCloseForBooking closes any live dispute on a booking that was
// cancelled by an external process, recording a system-generated note.
func (s *Service) ForceCloseForBooking(ctx context.Context, bookingID int64, note string) error {
	d, err := s.disputes.FindOpenByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeNotFound) {
			return nil
		}
		return err
	}

	if err := s.disputes.MarkClosed(ctx, d.ID, d.Version, note); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrConflict
		}
		return err
	}

	if s.notifs != nil {
		b, err := s.bookings.GetByID(ctx, bookingID)
		if err == nil {
			for _, uid := range []int64{b.OwnerID, b.RenterID} {
				if uid > 0 {
					_ = s.notifs.NotifyDisputeClosed(ctx, uid, d.ID, note)
				}
			}
		}
	}

	return nil
}
