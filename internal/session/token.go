package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the claims the backend puts in its access tokens
type tokenClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// tokenExpiry reads the exp claim of a backend token. The signature is not
// checked: the backend verifies its own tokens on every call, this only
// keeps sessions from outliving them.
func tokenExpiry(token string) (time.Time, bool) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
