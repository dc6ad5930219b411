package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sngm3741/pollbox/api/internal/identity/application"
	"github.com/sngm3741/pollbox/api/internal/identity/domain"
	"github.com/sngm3741/pollbox/api/internal/infrastructure/jwt"
	"github.com/sngm3741/pollbox/api/internal/infrastructure/memory"
)

func newAuth(t *testing.T) (application.AuthService, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	issuer, err := jwt.NewIssuer(jwt.Config{Secret: []byte("secret"), Issuer: "pollbox-auth", TTL: time.Hour})
	require.NoError(t, err)
	return application.NewAuthService(users, issuer, bcrypt.MinCost), users
}

func signUpCommand(userName, email string) application.SignUpCommand {
	return application.SignUpCommand{
		FullName:    "Alice Example",
		DateOfBirth: "1990-01-01",
		Gender:      "female",
		UserName:    userName,
		Email:       email,
		Password:    "correct horse",
	}
}

func TestSignUpHashesPasswordAndAssignsID(t *testing.T) {
	auth, users := newAuth(t)

	user, err := auth.SignUp(context.Background(), signUpCommand("alice", "Alice@Example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, []byte("correct horse"), user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("correct horse")))

	stored, err := users.FindByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, stored.UserID)
}

func TestSignUpKeepsClientUserID(t *testing.T) {
	auth, _ := newAuth(t)
	cmd := signUpCommand("alice", "alice@example.com")
	cmd.UserID = "client-id"

	user, err := auth.SignUp(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "client-id", user.UserID)
}

func TestSignUpRejects(t *testing.T) {
	auth, _ := newAuth(t)
	_, err := auth.SignUp(context.Background(), signUpCommand("alice", "alice@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*application.SignUpCommand)
		want   error
	}{
		{name: "short password", mutate: func(c *application.SignUpCommand) { c.Password = "short" }, want: domain.ErrInvalidSignUp},
		{name: "missing full name", mutate: func(c *application.SignUpCommand) { c.FullName = " " }, want: domain.ErrInvalidSignUp},
		{name: "missing email", mutate: func(c *application.SignUpCommand) { c.Email = "" }, want: domain.ErrInvalidSignUp},
		{name: "overlong password", mutate: func(c *application.SignUpCommand) {
			c.Password = string(make([]byte, 80))
		}, want: domain.ErrInvalidSignUp},
		{name: "username taken", mutate: func(c *application.SignUpCommand) { c.UserName = "alice" }, want: domain.ErrUsernameTaken},
		{name: "email taken", mutate: func(c *application.SignUpCommand) { c.Email = "ALICE@example.com" }, want: domain.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := signUpCommand("bob", "bob@example.com")
			tt.mutate(&cmd)
			_, err := auth.SignUp(context.Background(), cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSignUpRejectsTakenUserID(t *testing.T) {
	auth, users := newAuth(t)
	first := signUpCommand("alice", "alice@example.com")
	first.UserID = "u1"
	_, err := auth.SignUp(context.Background(), first)
	require.NoError(t, err)

	second := signUpCommand("mallory", "mallory@example.com")
	second.UserID = "u1"
	_, err = auth.SignUp(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	stored, err := users.FindByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)

	_, err = users.FindByUserName(context.Background(), "mallory")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = auth.Login(context.Background(), "alice", "correct horse")
	assert.NoError(t, err)
}

func TestLoginAndVerify(t *testing.T) {
	auth, _ := newAuth(t)
	user, err := auth.SignUp(context.Background(), signUpCommand("alice", "alice@example.com"))
	require.NoError(t, err)

	token, err := auth.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := auth.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: user.UserID, UserName: "alice"}, identity)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auth, _ := newAuth(t)
	_, err := auth.SignUp(context.Background(), signUpCommand("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), "alice", "wrong password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "nobody", "correct horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyEmptyToken(t *testing.T) {
	auth, _ := newAuth(t)

	_, err := auth.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
