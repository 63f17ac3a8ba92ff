package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime applies when neither the server response nor the
// token itself says how long the token lives.
const DefaultTokenLifetime = 1800 * time.Second

// refreshFraction of the token lifetime must elapse before a refresh.
const refreshFraction = 0.8

// TokenLifetime resolves how long token lives from now. A positive
// expiresInSeconds wins; otherwise the unverified exp claim is used when it
// lies in the future.
func TokenLifetime(token string, expiresInSeconds int, now time.Time) time.Duration {
	if expiresInSeconds > 0 {
		return time.Duration(expiresInSeconds) * time.Second
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return DefaultTokenLifetime
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(now) {
		return DefaultTokenLifetime
	}
	return exp.Sub(now)
}

// IsTokenExpired is true when there is no expiry or it has passed.
func (s *Store) IsTokenExpired() bool {
	st := s.Snapshot()
	if st.TokenExpiresAt.IsZero() {
		return true
	}
	return !s.now().Before(st.TokenExpiresAt)
}

// ShouldRefreshToken is true once 80% of the token's lifetime has elapsed.
func (s *Store) ShouldRefreshToken() bool {
	st := s.Snapshot()
	if st.TokenExpiresAt.IsZero() {
		return false
	}

	issued := st.TokenIssuedAt
	if issued.IsZero() || !issued.Before(st.TokenExpiresAt) {
		// Lifetime unknown: refresh in the final minute.
		return !s.now().Before(st.TokenExpiresAt.Add(-time.Minute))
	}

	lifetime := st.TokenExpiresAt.Sub(issued)
	threshold := issued.Add(time.Duration(float64(lifetime) * refreshFraction))
	return !s.now().Before(threshold)
}
