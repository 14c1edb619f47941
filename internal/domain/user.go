package domain

import "time"

type UserRole string

const (
	RoleRenter    UserRole = "renter"
	RoleLandowner UserRole = "landowner"
	RoleAdmin     UserRole = "admin"
)

// IsStaff reports whether the role carries the administrative capability
// required to adjudicate disputes.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	Role      UserRole  `json:"role"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
