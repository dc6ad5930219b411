package domain

import "time"

// VoteRecord は (PollID, VoterID) ごとに高々 1 件だけ存在する投票記録。作成後は変更されない。
type VoteRecord struct {
	ID                string
	PollID            string
	VoterID           string
	SelectedOptionIDs []string
	VotedAt           time.Time
}

// Selected reports whether the record includes optionID.
func (v VoteRecord) Selected(optionID string) bool {
	for _, id := range v.SelectedOptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// NormalizeSelection は選択 ID を集合として扱うため、先頭出現順を保ったまま重複を除く。
func NormalizeSelection(selected []string) []string {
	result := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// ValidateSelection は選択内容を投票の種別に照らして検証する。
// 判定順は 空 → 未知の選択肢 → 単一選択での複数指定。最初の違反で返す。
func ValidateSelection(poll Poll, selected []string) error {
	if len(selected) == 0 {
		return ErrEmptySelection
	}
	for _, id := range selected {
		if !poll.HasOption(id) {
			return ErrUnknownOption
		}
	}
	if poll.ChoiceType == ChoiceSingle && len(selected) > 1 {
		return ErrTooManySelections
	}
	return nil
}
