package application

import (
	"context"
	"time"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

type voteService struct {
	polls PollRepository
	votes VoteRepository
	now   func() time.Time
}

func NewVoteService(polls PollRepository, votes VoteRepository) VoteService {
	return &voteService{polls: polls, votes: votes, now: time.Now}
}

// Submit は選択内容を検証し、(投票, 投票者) ごとに 1 件だけ投票記録を追加する。
// 既存記録の確認と挿入の間に排他はないため、同時送信の最終的な防波堤は
// VoteRepository 側の一意制約になる。
func (s *voteService) Submit(ctx context.Context, cmd SubmitVoteCommand) (*domain.VoteRecord, error) {
	poll, err := s.polls.FindByID(ctx, cmd.PollID)
	if err != nil {
		return nil, err
	}

	selected := domain.NormalizeSelection(cmd.SelectedOptionIDs)
	if err := domain.ValidateSelection(*poll, selected); err != nil {
		return nil, err
	}

	voted, err := s.votes.Exists(ctx, poll.ID, cmd.VoterID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, domain.ErrAlreadyVoted
	}

	vote := &domain.VoteRecord{
		PollID:            poll.ID,
		VoterID:           cmd.VoterID,
		SelectedOptionIDs: selected,
		VotedAt:           s.now().UTC(),
	}
	if err := s.votes.Insert(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}
