package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sngm3741/pollbox/api/internal/identity/domain"
)

const maxPasswordBytes = 72

type authService struct {
	users  UserRepository
	tokens TokenIssuer
	cost   int
	now    func() time.Time
}

// NewAuthService は bcrypt のコストを指定して AuthService を生成する。範囲外のコストは既定値に丸める。
func NewAuthService(users UserRepository, tokens TokenIssuer, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{users: users, tokens: tokens, cost: bcryptCost, now: time.Now}
}

func (s *authService) SignUp(ctx context.Context, cmd SignUpCommand) (*domain.User, error) {
	user := domain.User{
		UserID:      strings.TrimSpace(cmd.UserID),
		FullName:    strings.TrimSpace(cmd.FullName),
		DateOfBirth: strings.TrimSpace(cmd.DateOfBirth),
		Gender:      strings.TrimSpace(cmd.Gender),
		UserName:    strings.TrimSpace(cmd.UserName),
		Email:       strings.ToLower(strings.TrimSpace(cmd.Email)),
	}
	if user.FullName == "" || user.DateOfBirth == "" || user.Gender == "" || user.UserName == "" || user.Email == "" || cmd.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrInvalidSignUp)
	}
	if len(cmd.Password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidSignUp, domain.MinPasswordLength)
	}
	// bcrypt は先頭 72 バイトしか扱わない。
	if len(cmd.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password is too long", domain.ErrInvalidSignUp)
	}

	taken, err := s.users.ExistsByUserName(ctx, user.UserName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}
	taken, err = s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	user.CreatedAt = s.now().UTC()

	if err := s.users.Insert(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login は利用者名とパスワードを照合してトークンを返す。
// 利用者が存在しない場合もパスワード不一致と同じ ErrInvalidCredentials を返す。
func (s *authService) Login(ctx context.Context, userName, password string) (string, error) {
	user, err := s.users.FindByUserName(ctx, strings.TrimSpace(userName))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Identity(), s.now())
}

func (s *authService) Verify(_ context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return s.tokens.Verify(token)
}
