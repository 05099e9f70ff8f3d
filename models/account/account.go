package account

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles. Authorization checks switch on
// Role values instead of comparing raw strings from the request.
type Role string

const (
	RoleOfficial Role = "Official"
	RoleVoter    Role = "Voter"
)

// ParseRole maps a request-supplied role string onto the Role enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOfficial:
		return RoleOfficial, nil
	case RoleVoter:
		return RoleVoter, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Account represents a signed-up user. An account starts unverified with a
// pending OTP; verification clears the OTP fields and unlocks login.
type Account struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string     `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username     string     `gorm:"type:varchar(255);not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);not null;unique" json:"email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	OTPCode      *string    `gorm:"column:otp_code;type:varchar(6)" json:"-"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// OTPValid reports whether the supplied code matches the pending OTP and the
// OTP has not expired at the given instant.
func (a *Account) OTPValid(code string, at time.Time) bool {
	if a.OTPCode == nil || a.OTPExpiresAt == nil {
		return false
	}
	return *a.OTPCode == code && at.Before(*a.OTPExpiresAt)
}

// MarkVerified promotes the account and clears the pending OTP.
func (a *Account) MarkVerified() {
	a.IsVerified = true
	a.OTPCode = nil
	a.OTPExpiresAt = nil
}

// AvatarURL returns the generated initials avatar served for this account.
func (a *Account) AvatarURL() string {
	return "https://api.dicebear.com/6.x/initials/svg?seed=" + a.Username
}
