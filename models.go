package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the principal model. Principals are never physically deleted;
// archival is a soft state and archived rows stay queryable by id.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	RoleID         *uuid.UUID `bun:"role_id,type:uuid" json:"role_id,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	StudyPace      string     `bun:"user_type" json:"user_type,omitempty"`
	GoogleSubject  string     `bun:"google_subject" json:"google_subject,omitempty"`
	Archived       bool       `bun:"archived,notnull,default:false" json:"archived,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasRole reports whether the principal carries a role reference. A principal
// without one has no elevated permissions.
func (u *User) HasRole() bool {
	return u != nil && u.RoleID != nil && *u.RoleID != uuid.Nil
}

// PublicProfile strips credential material before the record crosses the
// service boundary.
func (u *User) PublicProfile() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// RefreshToken tracks the single live refresh token of a principal. The
// user id is the primary key, which is what gives rotation its
// overwrite-in-place semantics.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rft"`
	UserID        uuid.UUID `bun:"user_id,pk,type:uuid" json:"user_id,omitempty"`
	Token         string    `bun:"token,notnull" json:"-"`
	ExpiresAt     time.Time `bun:"expires_at,notnull" json:"expires_at,omitempty"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t == nil || !now.Before(t.ExpiresAt)
}

// ResetCode is a short-lived one-time numeric credential. Several codes may
// coexist for one principal; a successful reset deletes all of them.
type ResetCode struct {
	bun.BaseModel `bun:"table:reset_codes,alias:rsc"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Code          string    `bun:"code,notnull" json:"-"`
	ExpiresAt     time.Time `bun:"expires_at,notnull" json:"expires_at,omitempty"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (c *ResetCode) Expired(now time.Time) bool {
	return c == nil || !now.Before(c.ExpiresAt)
}

// TokenPair is what a successful login, refresh, or federated exchange hands
// back to the transport layer.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"user_id"`
}
