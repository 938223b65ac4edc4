// Package session keeps browser sessions server-side in Redis. The browser
// holds only an opaque session id cookie; the backend token never leaves
// the server.
package session

import (
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/guard"
	"github.com/mansoorceksport/mealturn/internal/ordering"
)

// FlashKind styles a notification
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown on the next rendered page
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
}

// Session is the server-side state of one browser
type Session struct {
	ID              string              `json:"id"`
	User            *domain.User        `json:"user,omitempty"`
	Token           string              `json:"token,omitempty"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	IsLoading       bool                `json:"isLoading"`
	ValidatedAt     time.Time           `json:"validatedAt"`
	Draft           *ordering.Selection `json:"draft,omitempty"`
	PendingEmail    string              `json:"pendingEmail,omitempty"`
	Flashes         []Flash             `json:"flashes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	ExpiresAt       time.Time           `json:"expiresAt"`
}

// State is the view of the session the route guard works on
func (s *Session) State() guard.State {
	st := guard.State{IsAuthenticated: s.IsAuthenticated, IsLoading: s.IsLoading}
	if s.User != nil {
		st.Role = s.User.Role
	}
	return st
}

// UserID returns the signed-in user's id or ""
func (s *Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// IsAdmin reports whether an admin is signed in
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated && s.User.IsAdmin()
}

// SignIn stores the token and user returned by login or OTP verification
func (s *Session) SignIn(token string, user domain.User, now, expiresAt time.Time) {
	s.Token = token
	s.User = &user
	s.IsAuthenticated = true
	s.IsLoading = false
	s.ValidatedAt = now
	s.ExpiresAt = expiresAt
	s.PendingEmail = ""
	s.Draft = nil
}

// SignOut forgets the user but keeps pending flashes
func (s *Session) SignOut() {
	s.Token = ""
	s.User = nil
	s.IsAuthenticated = false
	s.IsLoading = false
	s.ValidatedAt = time.Time{}
	s.Draft = nil
	s.PendingEmail = ""
}

// AddFlash queues a notification
func (s *Session) AddFlash(kind FlashKind, title, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Title: title, Message: message})
}

// Success queues a success notification
func (s *Session) Success(title, message string) {
	s.AddFlash(FlashSuccess, title, message)
}

// Error queues an error notification
func (s *Session) Error(title, message string) {
	s.AddFlash(FlashError, title, message)
}

// PopFlashes returns and clears the queued notifications
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Selection returns the order draft, starting one when missing
func (s *Session) Selection() *ordering.Selection {
	if s.Draft == nil {
		s.Draft = ordering.NewSelection()
	}
	return s.Draft
}

// Persistent reports whether the session holds anything that must
// survive to the next request
func (s *Session) Persistent() bool {
	return s.Token != "" || len(s.Flashes) > 0 || s.Draft != nil || s.PendingEmail != ""
}
