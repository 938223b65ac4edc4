// Package guard decides whether a visitor may see a route.
package guard

import "github.com/mansoorceksport/mealturn/internal/domain"

// Access is the protection level of a route
type Access int

const (
	Public Access = iota
	Protected
	Admin
	GuestOnly
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	case GuestOnly:
		return "guest-only"
	default:
		return "public"
	}
}

// State is what the guard knows about the visitor
type State struct {
	IsAuthenticated bool
	IsLoading       bool
	Role            string
}

// Outcome is what the router does with a request
type Outcome int

const (
	Allow Outcome = iota
	Wait
	Redirect
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the result of Decide. Location is set for Redirect only.
type Decision struct {
	Outcome  Outcome
	Location string
}

var allow = Decision{Outcome: Allow}

// Decide applies the route policy. While the session is still being
// validated, protected and admin routes wait rather than redirect.
func Decide(st State, access Access) Decision {
	switch access {
	case Protected:
		if st.IsLoading {
			return Decision{Outcome: Wait}
		}
		if !st.IsAuthenticated {
			return Decision{Outcome: Redirect, Location: LoginPath}
		}
	case Admin:
		if st.IsLoading {
			return Decision{Outcome: Wait}
		}
		if !st.IsAuthenticated || st.Role != domain.RoleAdmin {
			return Decision{Outcome: Redirect, Location: HomePath}
		}
	case GuestOnly:
		if st.IsAuthenticated && !st.IsLoading {
			return Decision{Outcome: Redirect, Location: HomePath}
		}
	}
	return allow
}
