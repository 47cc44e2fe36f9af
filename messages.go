package identity

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// SignupMessage carries a new registration.
type SignupMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m SignupMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required, validation.Length(6, 72)),
	)
}

// LoginMessage carries a credential pair.
type LoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m LoginMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

// ChangePasswordMessage rotates a password for an authenticated principal.
type ChangePasswordMessage struct {
	UserID      uuid.UUID `json:"user_id"`
	OldPassword string    `json:"old_password"`
	NewPassword string    `json:"new_password"`
}

func (m ChangePasswordMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.OldPassword, validation.Required),
		validation.Field(&m.NewPassword, validation.Required, validation.Length(6, 72)),
	)
}

// ResetPasswordMessage finishes a forgot-password flow.
type ResetPasswordMessage struct {
	UserID      uuid.UUID `json:"user_id"`
	NewPassword string    `json:"new_password"`
	Code        string    `json:"code"`
}

func (m ResetPasswordMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.NewPassword, validation.Required, validation.Length(6, 72)),
		validation.Field(&m.Code, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

// UpdateProfileMessage edits a principal's own profile. Empty fields stay
// untouched.
type UpdateProfileMessage struct {
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
}

func (m UpdateProfileMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Length(1, 120)),
		validation.Field(&m.Email, is.Email),
	)
}

// UpdateUserMessage is the administrative edit: profile fields plus role
// reassignment and study pace.
type UpdateUserMessage struct {
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	RoleID    *uuid.UUID `json:"role_id"`
	StudyPace string     `json:"user_type"`
}

func (m UpdateUserMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Length(1, 120)),
		validation.Field(&m.Email, is.Email),
	)
}
