package domain

import "strings"

// LivePolls は userVotes に含まれない投票だけを、allPolls の順序のまま返す。
// userVotes は呼び出し側で投票者を絞り込んでおくこと。
func LivePolls(allPolls []Poll, userVotes []VoteRecord) []Poll {
	// 未投票ユーザーには全件をそのまま見せる。
	if len(userVotes) == 0 {
		return allPolls
	}

	answered := make(map[string]struct{}, len(userVotes))
	for _, vote := range userVotes {
		answered[vote.PollID] = struct{}{}
	}

	live := make([]Poll, 0, len(allPolls))
	for _, poll := range allPolls {
		if _, ok := answered[poll.ID]; ok {
			continue
		}
		live = append(live, poll)
	}
	return live
}

// PollFilter は一覧表示の絞り込み条件。空のフィールドは条件なしとして扱う。
type PollFilter struct {
	Search     string
	Category   Category
	ChoiceType ChoiceType
}

// Match は poll が全条件を満たすか判定する。Search は質問文への部分一致（大文字小文字無視）。
func (f PollFilter) Match(poll Poll) bool {
	if f.Category != "" && poll.Category != f.Category {
		return false
	}
	if f.ChoiceType != "" && poll.ChoiceType != f.ChoiceType {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search != "" && !strings.Contains(strings.ToLower(poll.QuestionText), search) {
		return false
	}
	return true
}

// IsZero reports whether the filter has no conditions.
func (f PollFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Category == "" && f.ChoiceType == ""
}

// FilterPolls は順序を保ったまま filter に一致する投票を返す。
func FilterPolls(polls []Poll, filter PollFilter) []Poll {
	if filter.IsZero() {
		return polls
	}
	result := make([]Poll, 0, len(polls))
	for _, poll := range polls {
		if filter.Match(poll) {
			result = append(result, poll)
		}
	}
	return result
}
