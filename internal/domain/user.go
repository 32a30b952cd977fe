package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a local identity. Accounts come in through either the OAuth
// exchange (OpenID set, no password) or the local email/password flow
// used by admins. Role is the only signal the authorization layer reads.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	OpenID       *string    `json:"open_id,omitempty" gorm:"column:open_id;uniqueIndex;size:64"`
	Email        string     `json:"email" gorm:"size:320;index"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         UserRole   `json:"role" gorm:"size:16;default:user"`
	LoginMethod  string     `json:"login_method,omitempty" gorm:"size:64"`
	LastSignedIn *time.Time `json:"last_signed_in,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
