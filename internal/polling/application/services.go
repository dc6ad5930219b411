package application

import (
	"context"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// PollRepository は投票定義の永続化ポート。
// 見つからない場合 FindByID は domain.ErrNotFoundOrForbidden を返す。
type PollRepository interface {
	Insert(ctx context.Context, poll *domain.Poll) error
	FindByID(ctx context.Context, pollID string) (*domain.Poll, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Poll, error)
	FindByIDs(ctx context.Context, pollIDs []string) ([]domain.Poll, error)
	FindAll(ctx context.Context) ([]domain.Poll, error)
	DeleteByID(ctx context.Context, pollID string) error
}

// VoteRepository は投票記録の永続化ポート。
// Insert は (pollID, voterID) の重複を検知した場合 domain.ErrAlreadyVoted を返す。
type VoteRepository interface {
	Insert(ctx context.Context, vote *domain.VoteRecord) error
	Exists(ctx context.Context, pollID, voterID string) (bool, error)
	FindByVoter(ctx context.Context, voterID string) ([]domain.VoteRecord, error)
	FindByPoll(ctx context.Context, pollID string) ([]domain.VoteRecord, error)
	FindByPolls(ctx context.Context, pollIDs []string) ([]domain.VoteRecord, error)
	TallyByPoll(ctx context.Context, pollID string) (domain.Tally, error)
	CountByPoll(ctx context.Context, pollID string) (int64, error)
	DeleteByPoll(ctx context.Context, pollID string) (int64, error)
}

// Transactor は fn をひとまとまりの書き込みとして実行する。
// ストアがトランザクションを提供しない構成では fn を順に実行するだけでよい。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// VoteService は投票の検証と記録を担う。
type VoteService interface {
	Submit(ctx context.Context, cmd SubmitVoteCommand) (*domain.VoteRecord, error)
}

// PollService は投票の作成・削除（所有者のみ）を担う。
type PollService interface {
	Create(ctx context.Context, ownerID string, draft domain.PollDraft) (*domain.Poll, error)
	Delete(ctx context.Context, ownerID, pollID string) error
}

// QueryService は一覧・集計の読み取りユースケース。
type QueryService interface {
	LivePolls(ctx context.Context, userID string, filter domain.PollFilter) ([]domain.Poll, error)
	OwnedPolls(ctx context.Context, ownerID string) ([]domain.Poll, error)
	Detail(ctx context.Context, pollID string) (*PollDetail, error)
	VotedPolls(ctx context.Context, userID string, filter domain.PollFilter) ([]domain.VotedPoll, error)
}

// SubmitVoteCommand captures a voter's selection for one poll.
type SubmitVoteCommand struct {
	PollID            string
	VoterID           string
	SelectedOptionIDs []string
}

// PollDetail は単一投票の定義と集計結果。
type PollDetail struct {
	Poll            domain.Poll
	Results         []domain.OptionResult
	TotalVoters     int
	TotalSelections int
}

type passthroughTransactor struct{}

// NoTransaction は fn をそのまま実行する Transactor。
func NoTransaction() Transactor {
	return passthroughTransactor{}
}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
