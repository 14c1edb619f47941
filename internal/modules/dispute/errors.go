package dispute

import (
	"errors"
	"fmt"

	"landshare/internal/domain"
)

var (
	// ErrNotFound covers both a missing dispute and a dispute the actor has
	// no visibility into (role none), so existence is never leaked.
	ErrNotFound = errors.New("dispute not found")

	ErrNotAuthorized        = errors.New("not authorized")
	ErrValidation           = errors.New("validation error")
	ErrInvalidContent       = errors.New("invalid message content")
	ErrInvalidResolution    = errors.New("invalid resolution payload")
	ErrDisputeClosed        = errors.New("dispute is closed")
	ErrDisputeExists        = errors.New("booking already has an open dispute")
	ErrReconciliationFailed = errors.New("financial reconciliation failed")
	ErrConflict             = errors.New("concurrent update conflict")
	ErrIllegalTransition    = errors.New("illegal status transition")
)

// IllegalTransitionError names the current and requested status. It matches
// ErrIllegalTransition under errors.Is.
type IllegalTransitionError struct {
	From domain.DisputeStatus
	To   domain.DisputeStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

func illegalTransition(from, to domain.DisputeStatus) error {
	return &IllegalTransitionError{From: from, To: to}
}
