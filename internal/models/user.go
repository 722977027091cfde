package models

import (
	"time"
)

type UserRole string

const (
	RoleContributor UserRole = "contributor"
	RoleModerator   UserRole = "moderator"
	RoleAdmin       UserRole = "admin"
)

// CanModerate reports whether the role may review questions and access the
// moderation dashboard.
func (r UserRole) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100" validate:"required,min=3,max=100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"size:20;default:contributor" validate:"omitempty,user_role"`
	Specialty    string   `json:"specialty" gorm:"size:100"`

	// Contribution ledger. Pending + Approved never exceeds Contributions;
	// the remainder is the rejected count.
	Contributions int `json:"contributions" gorm:"not null;default:0"`
	Approved      int `json:"approved" gorm:"not null;default:0"`
	Pending       int `json:"pending" gorm:"not null;default:0"`

	// Subscription bypasses the contribution-based unlock entitlement.
	SubscribedUntil *time.Time `json:"subscribed_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasActiveSubscription reports whether the user holds a subscription at
// the given instant.
func (u *User) HasActiveSubscription(now time.Time) bool {
	return u.SubscribedUntil != nil && u.SubscribedUntil.After(now)
}

// ApprovalRate is the share of the user's submissions that were approved.
// Zero when the user has not contributed, never a division by zero.
func (u *User) ApprovalRate() float64 {
	if u.Contributions == 0 {
		return 0
	}
	return float64(u.Approved) / float64(u.Contributions)
}
