package dispute

import (
	"math"

	"landshare/internal/domain"
)

// transitions is the full legal transition table. RESOLVED and CLOSED are
// terminal: re-requesting a terminal state is rejected, never absorbed.
var transitions = map[domain.DisputeStatus][]domain.DisputeStatus{
	domain.DisputeOpen: {
		domain.DisputeUnderReview,
		domain.DisputeResolved,
		domain.DisputeClosed,
	},
	domain.DisputeUnderReview: {
		domain.DisputeResolved,
		domain.DisputeClosed,
	},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to domain.DisputeStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateResolutionPayload checks the (resolution, amount) pair against the
// booking total current at resolution time. Rules:
//
//	full_refund                        amount == total
//	no_refund, dismissed,
//	deposit_forfeited                  amount == 0
//	all other kinds                    0 <= amount <= total
func ValidateResolutionPayload(kind domain.DisputeResolution, amount, bookingTotal float64) error {
	if !kind.Valid() {
		return ErrInvalidResolution
	}

	amount = roundCents(amount)
	bookingTotal = roundCents(bookingTotal)

	if amount < 0 || amount > bookingTotal {
		return ErrInvalidResolution
	}

	switch kind {
	case domain.ResolutionFullRefund:
		if amount != bookingTotal {
			return ErrInvalidResolution
		}
	case domain.ResolutionNoRefund, domain.ResolutionDismissed, domain.ResolutionDepositForfeited:
		if amount != 0 {
			return ErrInvalidResolution
		}
	}
	return nil
}
