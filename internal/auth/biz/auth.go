package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drivehub/drive-backend/internal/auth"
	pkgoauth2 "github.com/drivehub/drive-backend/internal/pkg/oauth2"
	userbiz "github.com/drivehub/drive-backend/internal/user/biz"
)

var (
	// ErrSessionNotFound indicates the session is absent or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidState indicates the OAuth state is unknown or already used
	ErrInvalidState = errors.New("invalid oauth state")
)

// Session is one authenticated browser session
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore persists sessions with a TTL
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// StateStore persists short-lived OAuth state nonces. Take consumes the
// state so each nonce authorizes exactly one callback.
type StateStore interface {
	Put(ctx context.Context, state string) error
	Take(ctx context.Context, state string) (bool, error)
}

// AuthUseCase drives the login flow: consent redirect, code exchange,
// lazy user creation, and session issue/verify/revoke.
type AuthUseCase struct {
	google   *pkgoauth2.GoogleProvider
	users    *userbiz.UserUseCase
	sessions SessionStore
	states   StateStore
	tokens   *auth.TokenManager
}

func NewAuthUseCase(
	google *pkgoauth2.GoogleProvider,
	users *userbiz.UserUseCase,
	sessions SessionStore,
	states StateStore,
	tokens *auth.TokenManager,
) *AuthUseCase {
	return &AuthUseCase{
		google:   google,
		users:    users,
		sessions: sessions,
		states:   states,
		tokens:   tokens,
	}
}

// LoginURL creates a state nonce and returns the consent page URL
func (uc *AuthUseCase) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := uc.states.Put(ctx, state); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return uc.google.AuthCodeURL(state), nil
}

// HandleCallback completes the code exchange and opens a session,
// returning the signed cookie token
func (uc *AuthUseCase) HandleCallback(ctx context.Context, state, code string) (string, error) {
	ok, err := uc.states.Take(ctx, state)
	if err != nil {
		return "", fmt.Errorf("failed to check oauth state: %w", err)
	}
	if !ok {
		return "", ErrInvalidState
	}

	token, err := uc.google.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	profile, err := uc.google.FetchProfile(ctx, token)
	if err != nil {
		return "", err
	}

	user, err := uc.users.GetOrCreate(ctx, profile.Subject, profile.Name, profile.Email)
	if err != nil {
		return "", fmt.Errorf("failed to create user projection: %w", err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Subject:   user.Subject,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return uc.tokens.Issue(session.ID)
}

// Authenticate resolves a cookie token to its live session
func (uc *AuthUseCase) Authenticate(ctx context.Context, cookieToken string) (*Session, error) {
	sessionID, err := uc.tokens.Verify(cookieToken)
	if err != nil {
		return nil, err
	}
	return uc.sessions.Get(ctx, sessionID)
}

// Logout revokes the session behind a cookie token. An invalid token is
// treated as already logged out.
func (uc *AuthUseCase) Logout(ctx context.Context, cookieToken string) error {
	sessionID, err := uc.tokens.Verify(cookieToken)
	if err != nil {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}
