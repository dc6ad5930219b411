package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// VoteRepository は (pollID, voterID) の一意性を Insert 時に保証する。
type VoteRepository struct {
	mu    sync.RWMutex
	seq   int
	votes []domain.VoteRecord
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{}
}

func (r *VoteRepository) Insert(_ context.Context, vote *domain.VoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.votes {
		if existing.PollID == vote.PollID && existing.VoterID == vote.VoterID {
			return domain.ErrAlreadyVoted
		}
	}
	r.seq++
	vote.ID = strconv.Itoa(r.seq)
	r.votes = append(r.votes, cloneVote(*vote))
	return nil
}

func (r *VoteRepository) Exists(_ context.Context, pollID, voterID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.votes {
		if v.PollID == pollID && v.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *VoteRepository) FindByVoter(_ context.Context, voterID string) ([]domain.VoteRecord, error) {
	return r.collect(func(v domain.VoteRecord) bool { return v.VoterID == voterID }), nil
}

func (r *VoteRepository) FindByPoll(_ context.Context, pollID string) ([]domain.VoteRecord, error) {
	return r.collect(func(v domain.VoteRecord) bool { return v.PollID == pollID }), nil
}

func (r *VoteRepository) FindByPolls(_ context.Context, pollIDs []string) ([]domain.VoteRecord, error) {
	wanted := make(map[string]struct{}, len(pollIDs))
	for _, id := range pollIDs {
		wanted[id] = struct{}{}
	}
	return r.collect(func(v domain.VoteRecord) bool {
		_, ok := wanted[v.PollID]
		return ok
	}), nil
}

func (r *VoteRepository) TallyByPoll(ctx context.Context, pollID string) (domain.Tally, error) {
	votes, err := r.FindByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return domain.TallyVotes(votes), nil
}

func (r *VoteRepository) CountByPoll(_ context.Context, pollID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, v := range r.votes {
		if v.PollID == pollID {
			count++
		}
	}
	return count, nil
}

func (r *VoteRepository) DeleteByPoll(_ context.Context, pollID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.votes[:0]
	var deleted int64
	for _, v := range r.votes {
		if v.PollID == pollID {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	r.votes = kept
	return deleted, nil
}

func (r *VoteRepository) collect(match func(domain.VoteRecord) bool) []domain.VoteRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.VoteRecord, 0)
	for _, v := range r.votes {
		if match(v) {
			result = append(result, cloneVote(v))
		}
	}
	return result
}

func cloneVote(v domain.VoteRecord) domain.VoteRecord {
	v.SelectedOptionIDs = append([]string{}, v.SelectedOptionIDs...)
	return v
}
