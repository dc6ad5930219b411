// Package memory はプロセス内で完結するリポジトリ実装。ローカル起動とテストで使う。
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// PollRepository keeps polls in insertion order.
type PollRepository struct {
	mu    sync.RWMutex
	seq   int
	polls map[string]storedPoll
}

type storedPoll struct {
	seq  int
	poll domain.Poll
}

func NewPollRepository() *PollRepository {
	return &PollRepository{polls: make(map[string]storedPoll)}
}

func (r *PollRepository) Insert(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.polls[poll.ID]; exists {
		return domain.ErrPollExists
	}
	r.seq++
	r.polls[poll.ID] = storedPoll{seq: r.seq, poll: clonePoll(*poll)}
	return nil
}

func (r *PollRepository) FindByID(_ context.Context, pollID string) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.polls[pollID]
	if !ok {
		return nil, domain.ErrNotFoundOrForbidden
	}
	poll := clonePoll(stored.poll)
	return &poll, nil
}

func (r *PollRepository) FindByOwner(_ context.Context, ownerID string) ([]domain.Poll, error) {
	return r.collect(func(p domain.Poll) bool { return p.OwnerID == ownerID }), nil
}

func (r *PollRepository) FindByIDs(_ context.Context, pollIDs []string) ([]domain.Poll, error) {
	wanted := make(map[string]struct{}, len(pollIDs))
	for _, id := range pollIDs {
		wanted[id] = struct{}{}
	}
	return r.collect(func(p domain.Poll) bool {
		_, ok := wanted[p.ID]
		return ok
	}), nil
}

func (r *PollRepository) FindAll(_ context.Context) ([]domain.Poll, error) {
	return r.collect(func(domain.Poll) bool { return true }), nil
}

func (r *PollRepository) DeleteByID(_ context.Context, pollID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.polls[pollID]; !ok {
		return domain.ErrNotFoundOrForbidden
	}
	delete(r.polls, pollID)
	return nil
}

func (r *PollRepository) collect(match func(domain.Poll) bool) []domain.Poll {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := make([]storedPoll, 0, len(r.polls))
	for _, s := range r.polls {
		if match(s.poll) {
			stored = append(stored, s)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	result := make([]domain.Poll, 0, len(stored))
	for _, s := range stored {
		result = append(result, clonePoll(s.poll))
	}
	return result
}

func clonePoll(p domain.Poll) domain.Poll {
	p.Options = append([]domain.Option{}, p.Options...)
	return p
}
