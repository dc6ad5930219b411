package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sngm3741/pollbox/api/internal/identity/domain"
)

// UserRepository は userId と userName と email（大文字小文字を区別しない）の一意性を保証する。
// userId の重複は MongoDB 側と同じく ErrUsernameTaken として返す。
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Insert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; ok {
		return domain.ErrUsernameTaken
	}
	for _, existing := range r.users {
		if existing.UserName == user.UserName {
			return domain.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	stored := *user
	stored.PasswordHash = append([]byte{}, user.PasswordHash...)
	r.users[user.UserID] = stored
	return nil
}

func (r *UserRepository) FindByUserName(_ context.Context, userName string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.UserName == userName {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	_, err := r.FindByUserName(ctx, userName)
	if err == domain.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
