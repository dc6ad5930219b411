package domain

import "time"

const (
	// MinOptions は 1 つの投票に必要な選択肢の最小数。
	MinOptions = 2
	// MaxOptions は 1 つの投票に登録できる選択肢の最大数。
	MaxOptions = 6
)

// Poll は投票の定義。作成後は削除以外で変更されない。
type Poll struct {
	ID           string
	OwnerID      string
	Category     Category
	QuestionText string
	ChoiceType   ChoiceType
	Options      []Option
	CreatedAt    time.Time
}

// Option は投票内で一意な ID を持つ選択肢。
type Option struct {
	ID    string
	Label string
}

// HasOption は optionID が投票の選択肢に含まれるか判定する。
func (p Poll) HasOption(optionID string) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether userID created the poll.
func (p Poll) OwnedBy(userID string) bool {
	return p.OwnerID != "" && p.OwnerID == userID
}

// PollDraft は作成リクエストを検証前の形で保持する。
type PollDraft struct {
	ID           string
	Category     string
	QuestionText string
	ChoiceType   string
	Options      []Option
	CreatedAt    time.Time
}
