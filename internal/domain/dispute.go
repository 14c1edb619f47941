package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "open"
	DisputeUnderReview DisputeStatus = "under_review"
	DisputeResolved    DisputeStatus = "resolved"
	DisputeClosed      DisputeStatus = "closed"
)

// IsTerminal reports whether no further transitions or message appends are
// permitted.
func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeResolved || s == DisputeClosed
}

type DisputeReason string

const (
	ReasonPropertyNotAsDescribed DisputeReason = "property_not_as_described"
	ReasonAccessIssues           DisputeReason = "access_issues"
	ReasonPaymentDispute         DisputeReason = "payment_dispute"
	ReasonEarlyTermination       DisputeReason = "early_termination"
	ReasonDamageClaim            DisputeReason = "damage_claim"
	ReasonSafetyConcern          DisputeReason = "safety_concern"
	ReasonCommunicationIssues    DisputeReason = "communication_issues"
	ReasonOther                  DisputeReason = "other"
)

func (r DisputeReason) Valid() bool {
	switch r {
	case ReasonPropertyNotAsDescribed, ReasonAccessIssues, ReasonPaymentDispute,
		ReasonEarlyTermination, ReasonDamageClaim, ReasonSafetyConcern,
		ReasonCommunicationIssues, ReasonOther:
		return true
	}
	return false
}

type DisputeResolution string

const (
	ResolutionFullRefund       DisputeResolution = "full_refund"
	ResolutionPartialRefund    DisputeResolution = "partial_refund"
	ResolutionNoRefund         DisputeResolution = "no_refund"
	ResolutionDepositReturned  DisputeResolution = "deposit_returned"
	ResolutionDepositForfeited DisputeResolution = "deposit_forfeited"
	ResolutionMutualAgreement  DisputeResolution = "mutual_agreement"
	ResolutionDismissed        DisputeResolution = "dismissed"
)

func (r DisputeResolution) Valid() bool {
	switch r {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund,
		ResolutionDepositReturned, ResolutionDepositForfeited,
		ResolutionMutualAgreement, ResolutionDismissed:
		return true
	}
	return false
}

// DisputeRole is the computed relationship between a user and a dispute.
// It is produced by one pure function (dispute.ResolveRole), never inferred
// ad hoc at call sites.
type DisputeRole string

const (
	RoleFiler        DisputeRole = "filer"
	RoleCounterparty DisputeRole = "counterparty"
	RoleStaff        DisputeRole = "staff"
	RoleNone         DisputeRole = "none"
)

// Dispute is a formal claim raised against a booking requiring staff
// adjudication.
//
// The four resolution fields (Resolution, ResolvedAmount, ResolvedByID,
// ResolvedAt) are all nil until the transition to resolved and all non-nil
// after it. Closed disputes never carry a financial resolution.
type Dispute struct {
	ID              int64          `json:"id"`
	BookingID       int64          `json:"booking_id"`
	FiledByID       int64          `json:"filed_by_id"`
	Reason          DisputeReason  `json:"reason"`
	Description     string         `json:"description"`
	Evidence        []string       `json:"evidence,omitempty"`
	RequestedAmount *float64       `json:"requested_amount,omitempty"`
	Status          DisputeStatus  `json:"status"`

	Resolution      *DisputeResolution `json:"resolution,omitempty"`
	ResolutionNotes string             `json:"resolution_notes,omitempty"`
	ResolvedAmount  *float64           `json:"resolved_amount,omitempty"`
	ResolvedByID    *int64             `json:"resolved_by_id,omitempty"`
	ResolvedAt      *time.Time         `json:"resolved_at,omitempty"`

	// Version guards the read-check-write sequence on status transitions.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisputeMessage is an immutable entry in a dispute's message thread.
// Internal messages are visible to staff only; the flag is enforced at the
// read boundary, not by callers.
type DisputeMessage struct {
	ID          int64     `json:"id"`
	DisputeID   int64     `json:"dispute_id"`
	SenderID    int64     `json:"sender_id"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	IsInternal  bool      `json:"is_internal"`
	CreatedAt   time.Time `json:"created_at"`
}
