package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/supabase"
)

// identityProvider is the part of the Supabase auth client the usecase needs.
type identityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Token, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

type authUsecase struct {
	idp identityProvider
	now func() time.Time
}

func NewAuthUsecase(idp identityProvider) domain.AuthUsecase {
	return &authUsecase{idp: idp, now: time.Now}
}

func (u *authUsecase) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	token, err := u.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, apperror.New(http.StatusUnauthorized, "Invalid email or password", err)
		}
		return nil, apperror.Upstream("Sign-in failed", err)
	}

	return &domain.AuthSession{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry(u.now()),
		User:         toDomainUser(token.User),
	}, nil
}

func (u *authUsecase) SignOut(ctx context.Context, session domain.Session) error {
	if session.AccessToken == "" {
		return nil
	}
	if err := u.idp.SignOut(ctx, session.AccessToken); err != nil {
		return apperror.Upstream("Sign-out failed", err)
	}
	return nil
}

func (u *authUsecase) CurrentUser(ctx context.Context, session domain.Session) (*domain.User, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	user, err := u.idp.GetUser(ctx, session.AccessToken)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, apperror.New(http.StatusUnauthorized, "Session expired", err)
		}
		return nil, apperror.Upstream("Failed to load user", err)
	}
	du := toDomainUser(*user)
	return &du, nil
}

func toDomainUser(u supabase.User) domain.User {
	return domain.User{
		ID:           u.ID,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		LastSignInAt: u.LastSignInAt,
	}
}
