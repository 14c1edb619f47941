package dispute

import "landshare/internal/domain"

// ResolveRole computes the actor's relationship to a dispute. It is the
// single place role computation happens; callers must not infer roles from
// booking fields themselves.
//
// Staff capability wins over party status so that an administrator who
// happens to be a booking party keeps internal-thread visibility.
func ResolveRole(userID int64, isStaff bool, d *domain.Dispute, b *domain.Booking) domain.DisputeRole {
	if isStaff {
		return domain.RoleStaff
	}
	if userID == d.FiledByID {
		return domain.RoleFiler
	}
	if b != nil && b.IsParty(userID) {
		return domain.RoleCounterparty
	}
	return domain.RoleNone
}

// canRead reports whether the role may see the dispute at all.
func canRead(role domain.DisputeRole) bool {
	return role != domain.RoleNone
}

// canWriteMessages reports whether the role may append to the thread while
// the dispute is live. Internal messages additionally require staff.
func canWriteMessages(role domain.DisputeRole) bool {
	switch role {
	case domain.RoleFiler, domain.RoleCounterparty, domain.RoleStaff:
		return true
	}
	return false
}
