// Package session holds the persisted authentication state of the CLI: the
// access token, its lifetime, the refresh token and the current user.
package session

import (
	"time"

	"github.com/networth-tracker/networth/internal/models"
)

// State is an immutable view of the session. Readers get copies.
type State struct {
	Token          string
	TokenIssuedAt  time.Time
	TokenExpiresAt time.Time
	RefreshToken   string
	User           *models.UserProfile
	Loading        bool
}

// IsAuthenticated requires both a token and a settled user profile.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

func (s State) empty() bool {
	return s.Token == "" && s.RefreshToken == "" && s.User == nil &&
		s.TokenIssuedAt.IsZero() && s.TokenExpiresAt.IsZero()
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// snapshotVersion is bumped when the persisted layout changes; snapshots
// with another version are discarded on hydrate.
const snapshotVersion = 0

// snapshot is the persisted envelope, {"state": {...}, "version": 0}.
type snapshot struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	User            *models.UserProfile `json:"user"`
	Token           *string             `json:"token"`
	TokenIssuedAt   *int64              `json:"tokenIssuedAt"`  // Unix ms
	TokenExpiresAt  *int64              `json:"tokenExpiresAt"` // Unix ms
	RefreshToken    *string             `json:"refreshToken,omitempty"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

func toSnapshot(s State) snapshot {
	p := persistedState{
		User:            s.User,
		IsAuthenticated: s.IsAuthenticated(),
	}
	if s.Token != "" {
		p.Token = &s.Token
	}
	if s.RefreshToken != "" {
		p.RefreshToken = &s.RefreshToken
	}
	if !s.TokenIssuedAt.IsZero() {
		ms := s.TokenIssuedAt.UnixMilli()
		p.TokenIssuedAt = &ms
	}
	if !s.TokenExpiresAt.IsZero() {
		ms := s.TokenExpiresAt.UnixMilli()
		p.TokenExpiresAt = &ms
	}
	return snapshot{State: p, Version: snapshotVersion}
}

func fromSnapshot(snap snapshot) State {
	var s State
	p := snap.State
	if p.Token != nil {
		s.Token = *p.Token
	}
	if p.RefreshToken != nil {
		s.RefreshToken = *p.RefreshToken
	}
	if p.TokenIssuedAt != nil {
		s.TokenIssuedAt = time.UnixMilli(*p.TokenIssuedAt)
	}
	if p.TokenExpiresAt != nil {
		s.TokenExpiresAt = time.UnixMilli(*p.TokenExpiresAt)
	}
	// An incomplete profile is never restored as the session user.
	if p.User != nil && p.User.Complete() {
		s.User = p.User
	}
	return s
}
