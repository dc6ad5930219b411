// Package domain は利用者登録と認証に関わるモデルを定義する。
package domain

import (
	"errors"
	"time"
)

// MinPasswordLength は登録時に要求するパスワードの最小文字数。
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidSignUp      = errors.New("invalid sign-up request")
	ErrUserNotFound       = errors.New("user not found")
)

// User は登録済み利用者。PasswordHash 以外の平文パスワードは保持しない。
type User struct {
	UserID       string
	FullName     string
	DateOfBirth  string
	Gender       string
	UserName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity はトークンから復元される認証済み主体。
type Identity struct {
	UserID   string
	UserName string
}

// Identity returns the principal a token is issued for.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, UserName: u.UserName}
}
