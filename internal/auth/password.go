package auth

import (
	"context"
	"errors"
	"fmt"

	"storyhub/internal/models"
	"storyhub/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UserLookup is the part of the store the password strategy needs.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticate checks a username and password. Accounts created through
// GitHub have no password and can never log in this way.
func Authenticate(ctx context.Context, users UserLookup, username, password string) (*models.User, error) {
	user, err := users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == "" || !CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
