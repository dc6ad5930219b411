package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

type pollService struct {
	polls PollRepository
	votes VoteRepository
	tx    Transactor
	now   func() time.Time
}

func NewPollService(polls PollRepository, votes VoteRepository, tx Transactor) PollService {
	if tx == nil {
		tx = NoTransaction()
	}
	return &pollService{polls: polls, votes: votes, tx: tx, now: time.Now}
}

// Create は下書きを検証して保存する。ID が未指定の場合のみサーバー側で採番する。
func (s *pollService) Create(ctx context.Context, ownerID string, draft domain.PollDraft) (*domain.Poll, error) {
	poll, err := domain.NewPoll(ownerID, draft)
	if err != nil {
		return nil, err
	}
	if poll.ID == "" {
		poll.ID = uuid.NewString()
	}
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = s.now().UTC()
	}
	if err := s.polls.Insert(ctx, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// Delete は所有者本人の投票だけを削除し、続けて関連する投票記録を削除する。
// 存在しない場合と他人の投票の場合は同じ ErrNotFoundOrForbidden を返す。
func (s *pollService) Delete(ctx context.Context, ownerID, pollID string) error {
	poll, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.OwnedBy(ownerID) {
		return domain.ErrNotFoundOrForbidden
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.polls.DeleteByID(ctx, poll.ID); err != nil {
			return err
		}
		_, err := s.votes.DeleteByPoll(ctx, poll.ID)
		return err
	})
}
