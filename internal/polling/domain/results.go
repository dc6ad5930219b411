package domain

import "time"

// OptionResult は選択肢ごとの集計結果。Selected は閲覧者自身が選んだかどうかの表示用フラグで、集計値には影響しない。
type OptionResult struct {
	OptionID   string
	Label      string
	Votes      int
	Percentage int
	Selected   bool
}

// Tally は選択肢 ID ごとの選択数。
type Tally map[string]int

// TallyVotes は投票記録を選択肢 ID ごとに数える。複数選択の 1 票は選んだ全ての選択肢に 1 ずつ加算する。
func TallyVotes(votes []VoteRecord) Tally {
	tally := make(Tally)
	for _, vote := range votes {
		for _, id := range NormalizeSelection(vote.SelectedOptionIDs) {
			tally[id]++
		}
	}
	return tally
}

// AggregateResults は poll の選択肢順に得票数と割合を返す。
// 割合の分母は総選択数で、投票者数ではない。
func AggregateResults(poll Poll, votesForPoll []VoteRecord) []OptionResult {
	return ResultsFromTally(poll, TallyVotes(votesForPoll))
}

// ResultsFromTally はストア側の集計結果を poll の選択肢順に並べ直す。
// poll に存在しない選択肢 ID の集計は無視する。
func ResultsFromTally(poll Poll, tally Tally) []OptionResult {
	results := make([]OptionResult, 0, len(poll.Options))
	total := 0
	for _, opt := range poll.Options {
		count := tally[opt.ID]
		total += count
		results = append(results, OptionResult{
			OptionID: opt.ID,
			Label:    opt.Label,
			Votes:    count,
		})
	}
	for i := range results {
		results[i].Percentage = Percentage(results[i].Votes, total)
	}
	return results
}

// Percentage は votes/total*100 を四捨五入（0.5 は切り上げ）した整数を返す。total が 0 以下なら 0。
func Percentage(votes, total int) int {
	if total <= 0 || votes <= 0 {
		return 0
	}
	return (votes*200 + total) / (2 * total)
}

// TotalSelections sums the votes of every option.
func TotalSelections(results []OptionResult) int {
	total := 0
	for _, r := range results {
		total += r.Votes
	}
	return total
}

// AnnotateSelections は own に含まれる選択肢へ Selected を立てた新しいスライスを返す。
func AnnotateSelections(results []OptionResult, own VoteRecord) []OptionResult {
	annotated := make([]OptionResult, len(results))
	for i, r := range results {
		r.Selected = own.Selected(r.OptionID)
		annotated[i] = r
	}
	return annotated
}

// VotedPoll は「投票済み」一覧の 1 件分。
type VotedPoll struct {
	Poll        Poll
	Results     []OptionResult
	TotalVoters int
	VotedAt     time.Time
}

// BuildVotedPolls は閲覧者の投票記録 ownVotes と、対象投票の全投票記録 allVotes から
// 投票ごとの集計と閲覧者の選択を組み立てる。結果は polls の順序に従い、
// ownVotes に対応する記録がない投票は含めない。
func BuildVotedPolls(polls []Poll, ownVotes, allVotes []VoteRecord) []VotedPoll {
	own := make(map[string]VoteRecord, len(ownVotes))
	for _, vote := range ownVotes {
		own[vote.PollID] = vote
	}
	byPoll := make(map[string][]VoteRecord)
	for _, vote := range allVotes {
		byPoll[vote.PollID] = append(byPoll[vote.PollID], vote)
	}

	voted := make([]VotedPoll, 0, len(polls))
	for _, poll := range polls {
		mine, ok := own[poll.ID]
		if !ok {
			continue
		}
		votes := byPoll[poll.ID]
		voted = append(voted, VotedPoll{
			Poll:        poll,
			Results:     AnnotateSelections(AggregateResults(poll, votes), mine),
			TotalVoters: len(votes),
			VotedAt:     mine.VotedAt,
		})
	}
	return voted
}
