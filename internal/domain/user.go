package domain

import "time"

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the account returned by the backend's auth and users endpoints
type User struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Role          string       `json:"role"`
	IsVerified    bool         `json:"isVerified"`
	IsBlocked     bool         `json:"isBlocked,omitempty"`
	ActivePackage *UserPackage `json:"activePackage,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

// IsAdmin reports whether the user may access admin screens
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role      string
	IsBlocked *bool
	Search    string
}

// UserDetail is the admin view of one user with the packages they own
type UserDetail struct {
	User     User          `json:"user"`
	Packages []UserPackage `json:"packages"`
}

// Credentials are posted to /auth/login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is posted to /auth/register
type Registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// OTPVerification is posted to /auth/verify-otp
type OTPVerification struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// AuthResult is returned by login and OTP verification
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterResult is returned by registration: the email awaiting its code,
// or a token when the account needed no verification
type RegisterResult struct {
	Email string `json:"email,omitempty"`
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}
