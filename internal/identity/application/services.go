package application

import (
	"context"
	"time"

	"github.com/sngm3741/pollbox/api/internal/identity/domain"
)

// UserRepository は利用者の永続化ポート。
// Insert は userName / email の重複時にそれぞれ domain.ErrUsernameTaken / domain.ErrEmailTaken を返す。
// FindByUserName は見つからない場合 domain.ErrUserNotFound を返す。
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	FindByUserName(ctx context.Context, userName string) (*domain.User, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer はベアラートークンの発行と検証を担う。
type TokenIssuer interface {
	Issue(identity domain.Identity, now time.Time) (string, error)
	Verify(token string) (domain.Identity, error)
}

// AuthService は登録・ログイン・トークン検証のユースケース。
type AuthService interface {
	SignUp(ctx context.Context, cmd SignUpCommand) (*domain.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// SignUpCommand は登録フォームの入力。UserID が空ならサーバー側で採番する。
type SignUpCommand struct {
	UserID      string
	FullName    string
	DateOfBirth string
	Gender      string
	UserName    string
	Email       string
	Password    string
}
