package public

import (
	"time"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

type signUpRequest struct {
	UserID      string `json:"userId"`
	FullName    string `json:"fullName" validate:"required"`
	DateOfBirth string `json:"dob" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	UserName    string `json:"userName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type signUpResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	JWTToken string `json:"jwtToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type optionPayload struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// createPollRequest の件数や値の妥当性はドメイン側で検証する。
type createPollRequest struct {
	PollID       string          `json:"pollId"`
	Category     string          `json:"category" validate:"required"`
	QuestionText string          `json:"questionText" validate:"required"`
	ChoiceType   string          `json:"choiceType" validate:"required"`
	Options      []optionPayload `json:"options" validate:"required,dive"`
}

func (req createPollRequest) toDraft() domain.PollDraft {
	options := make([]domain.Option, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, domain.Option{ID: opt.ID, Label: opt.Label})
	}
	return domain.PollDraft{
		ID:           req.PollID,
		Category:     req.Category,
		QuestionText: req.QuestionText,
		ChoiceType:   req.ChoiceType,
		Options:      options,
	}
}

type submitVoteRequest struct {
	SelectedOptionIDs []string `json:"selectedOptionIds"`
}

type voteResponse struct {
	ID                string    `json:"id"`
	PollID            string    `json:"pollId"`
	VoterID           string    `json:"voterId"`
	SelectedOptionIDs []string  `json:"selectedOptionIds"`
	VotedAt           time.Time `json:"votedAt"`
}

type pollResponse struct {
	PollID       string          `json:"pollId"`
	OwnerID      string          `json:"ownerId"`
	Category     string          `json:"category"`
	QuestionText string          `json:"questionText"`
	ChoiceType   string          `json:"choiceType"`
	Options      []optionPayload `json:"options"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type pollListResponse struct {
	Items []pollResponse `json:"items"`
}

type optionResultResponse struct {
	OptionID   string `json:"optionId"`
	Label      string `json:"label"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
	Selected   bool   `json:"selected"`
}

type pollDetailResponse struct {
	Poll            pollResponse           `json:"poll"`
	Results         []optionResultResponse `json:"results"`
	TotalVotes      int                    `json:"totalVotes"`
	TotalSelections int                    `json:"totalSelections"`
}

type votedPollResponse struct {
	Poll       pollResponse           `json:"poll"`
	Results    []optionResultResponse `json:"results"`
	TotalVotes int                    `json:"totalVotes"`
	VotedAt    time.Time              `json:"votedAt"`
}

type votedPollListResponse struct {
	Items []votedPollResponse `json:"items"`
}

// buildPollResponse は Poll ドメインモデルをレスポンス DTO に変換する。
func buildPollResponse(p domain.Poll) pollResponse {
	options := make([]optionPayload, 0, len(p.Options))
	for _, opt := range p.Options {
		options = append(options, optionPayload{ID: opt.ID, Label: opt.Label})
	}
	return pollResponse{
		PollID:       p.ID,
		OwnerID:      p.OwnerID,
		Category:     p.Category.String(),
		QuestionText: p.QuestionText,
		ChoiceType:   p.ChoiceType.String(),
		Options:      options,
		CreatedAt:    p.CreatedAt,
	}
}

func buildPollResponses(polls []domain.Poll) []pollResponse {
	items := make([]pollResponse, 0, len(polls))
	for _, p := range polls {
		items = append(items, buildPollResponse(p))
	}
	return items
}

func buildResultResponses(results []domain.OptionResult) []optionResultResponse {
	items := make([]optionResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, optionResultResponse{
			OptionID:   r.OptionID,
			Label:      r.Label,
			Votes:      r.Votes,
			Percentage: r.Percentage,
			Selected:   r.Selected,
		})
	}
	return items
}
