package application

import (
	"context"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

type queryService struct {
	polls PollRepository
	votes VoteRepository
}

func NewQueryService(polls PollRepository, votes VoteRepository) QueryService {
	return &queryService{polls: polls, votes: votes}
}

// LivePolls は userID がまだ回答していない投票を返す。絞り込みは未回答判定の後に適用する。
func (s *queryService) LivePolls(ctx context.Context, userID string, filter domain.PollFilter) ([]domain.Poll, error) {
	all, err := s.polls.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	mine, err := s.votes.FindByVoter(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.FilterPolls(domain.LivePolls(all, mine), filter), nil
}

func (s *queryService) OwnedPolls(ctx context.Context, ownerID string) ([]domain.Poll, error) {
	return s.polls.FindByOwner(ctx, ownerID)
}

// Detail はストアの集計パイプラインを使って選択肢ごとの得票を求める。
func (s *queryService) Detail(ctx context.Context, pollID string) (*PollDetail, error) {
	poll, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	tally, err := s.votes.TallyByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	voters, err := s.votes.CountByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	results := domain.ResultsFromTally(*poll, tally)
	return &PollDetail{
		Poll:            *poll,
		Results:         results,
		TotalVoters:     int(voters),
		TotalSelections: domain.TotalSelections(results),
	}, nil
}

// VotedPolls は userID が回答した投票ごとに、全投票者の集計と本人の選択を返す。
func (s *queryService) VotedPolls(ctx context.Context, userID string, filter domain.PollFilter) ([]domain.VotedPoll, error) {
	mine, err := s.votes.FindByVoter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(mine) == 0 {
		return []domain.VotedPoll{}, nil
	}

	pollIDs := make([]string, 0, len(mine))
	for _, vote := range mine {
		pollIDs = append(pollIDs, vote.PollID)
	}

	polls, err := s.polls.FindByIDs(ctx, pollIDs)
	if err != nil {
		return nil, err
	}
	polls = domain.FilterPolls(polls, filter)
	if len(polls) == 0 {
		return []domain.VotedPoll{}, nil
	}

	visible := make([]string, 0, len(polls))
	for _, poll := range polls {
		visible = append(visible, poll.ID)
	}
	all, err := s.votes.FindByPolls(ctx, visible)
	if err != nil {
		return nil, err
	}
	return domain.BuildVotedPolls(polls, mine, all), nil
}
