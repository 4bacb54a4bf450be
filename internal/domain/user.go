package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string     `json:"id"` // Supabase UUID
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// Session is the authenticated caller. It is passed explicitly into every
// store call instead of living in a global auth client.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s Session) IsZero() bool {
	return s.UserID == "" || s.AccessToken == ""
}

// Expired reports whether the access token has passed its expiry. A zero
// ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AuthSession is returned by a successful sign-in.
type AuthSession struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Session converts a sign-in result into the session passed to store calls.
func (a AuthSession) Session() Session {
	return Session{
		UserID:      a.User.ID,
		Email:       a.User.Email,
		AccessToken: a.AccessToken,
		ExpiresAt:   a.ExpiresAt,
	}
}

type AuthUsecase interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, session Session) error
	CurrentUser(ctx context.Context, session Session) (*User, error)
}
