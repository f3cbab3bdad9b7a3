package biz

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound indicates no user exists for the given subject
var ErrUserNotFound = errors.New("user not found")

// User is the local projection of an identity-provider account. It is
// created lazily on first login and never deleted.
type User struct {
	ID        string
	Subject   string // identity-provider subject id, unique
	Name      string
	Email     string
	CreatedAt time.Time
}

// UserRepo defines the interface for user data operations
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetBySubject(ctx context.Context, subject string) (*User, error)
}

// UserUseCase contains business logic for user operations
type UserUseCase struct {
	repo UserRepo
}

func NewUserUseCase(repo UserRepo) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetOrCreate returns the user for the given subject, creating the
// projection on first login
func (uc *UserUseCase) GetOrCreate(ctx context.Context, subject, name, email string) (*User, error) {
	user, err := uc.repo.GetBySubject(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &User{
		Subject:   subject,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetBySubject looks up the user projection for an authenticated subject
func (uc *UserUseCase) GetBySubject(ctx context.Context, subject string) (*User, error) {
	return uc.repo.GetBySubject(ctx, subject)
}
