package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesNoPoll() Poll {
	return Poll{
		ID:         "p1",
		ChoiceType: ChoiceSingle,
		Options: []Option{
			{ID: "a", Label: "Yes"},
			{ID: "b", Label: "No"},
		},
	}
}

func TestAggregateResultsSinglePollScenario(t *testing.T) {
	votes := []VoteRecord{
		{VoterID: "u1", SelectedOptionIDs: []string{"a"}},
		{VoterID: "u2", SelectedOptionIDs: []string{"b"}},
		{VoterID: "u3", SelectedOptionIDs: []string{"a"}},
	}

	results := AggregateResults(yesNoPoll(), votes)

	require.Len(t, results, 2)
	assert.Equal(t, OptionResult{OptionID: "a", Label: "Yes", Votes: 2, Percentage: 67}, results[0])
	assert.Equal(t, OptionResult{OptionID: "b", Label: "No", Votes: 1, Percentage: 33}, results[1])
}

func TestAggregateResultsIsPure(t *testing.T) {
	poll := yesNoPoll()
	votes := []VoteRecord{
		{VoterID: "u1", SelectedOptionIDs: []string{"a"}},
		{VoterID: "u2", SelectedOptionIDs: []string{"b"}},
	}

	first := AggregateResults(poll, votes)
	second := AggregateResults(poll, votes)

	assert.Equal(t, first, second)
}

func TestAggregateResultsMultipleChoiceCountsSelections(t *testing.T) {
	poll := Poll{
		ID:         "p2",
		ChoiceType: ChoiceMultiple,
		Options: []Option{
			{ID: "x", Label: "Go"},
			{ID: "y", Label: "Rust"},
			{ID: "z", Label: "Zig"},
		},
	}
	votes := []VoteRecord{
		{VoterID: "u1", SelectedOptionIDs: []string{"x", "y"}},
		{VoterID: "u2", SelectedOptionIDs: []string{"x", "y", "z"}},
		{VoterID: "u3", SelectedOptionIDs: []string{"x"}},
	}

	results := AggregateResults(poll, votes)

	selections := 0
	for _, v := range votes {
		selections += len(v.SelectedOptionIDs)
	}
	assert.Equal(t, selections, TotalSelections(results))
	assert.NotEqual(t, len(votes), TotalSelections(results))
	assert.Equal(t, []int{3, 2, 1}, []int{results[0].Votes, results[1].Votes, results[2].Votes})
	// 3/6, 2/6, 1/6
	assert.Equal(t, []int{50, 33, 17}, []int{results[0].Percentage, results[1].Percentage, results[2].Percentage})
}

func TestAggregateResultsZeroVotes(t *testing.T) {
	results := AggregateResults(yesNoPoll(), nil)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Votes)
		assert.Zero(t, r.Percentage)
	}
}

func TestAggregateResultsEmptyOptions(t *testing.T) {
	results := AggregateResults(Poll{ID: "empty"}, []VoteRecord{{SelectedOptionIDs: []string{"a"}}})

	assert.Empty(t, results)
}

func TestResultsFromTallyIgnoresUnknownOptions(t *testing.T) {
	results := ResultsFromTally(yesNoPoll(), Tally{"a": 1, "b": 1, "ghost": 5})

	assert.Equal(t, 2, TotalSelections(results))
	assert.Equal(t, 50, results[0].Percentage)
	assert.Equal(t, 50, results[1].Percentage)
}

func TestPercentageSumsNearHundred(t *testing.T) {
	tallies := []Tally{
		{"a": 1, "b": 1, "c": 1},
		{"a": 1, "b": 2, "c": 4, "d": 8, "e": 16, "f": 32},
		{"a": 7, "b": 0, "c": 3},
		{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1},
	}
	poll := Poll{Options: []Option{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}, {ID: "f"}}}

	for _, tally := range tallies {
		results := ResultsFromTally(poll, tally)
		sum := 0
		for _, r := range results {
			sum += r.Percentage
		}
		assert.InDelta(t, 100, sum, float64(len(poll.Options)), "tally=%v", tally)
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	tests := []struct {
		votes, total, want int
	}{
		{1, 8, 13},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 200, 1},
		{1, 201, 0},
		{0, 10, 0},
		{5, 0, 0},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.votes, tt.total), "%d/%d", tt.votes, tt.total)
	}
}

func TestTallyVotesDeduplicatesWithinRecord(t *testing.T) {
	tally := TallyVotes([]VoteRecord{{SelectedOptionIDs: []string{"a", "a", "b"}}})

	assert.Equal(t, Tally{"a": 1, "b": 1}, tally)
}

func TestBuildVotedPollsFlagsOwnSelections(t *testing.T) {
	p1 := yesNoPoll()
	p2 := Poll{
		ID:         "p2",
		ChoiceType: ChoiceMultiple,
		Options:    []Option{{ID: "x", Label: "X"}, {ID: "y", Label: "Y"}, {ID: "z", Label: "Z"}},
	}
	own := []VoteRecord{
		{PollID: "p1", VoterID: "me", SelectedOptionIDs: []string{"b"}},
		{PollID: "p2", VoterID: "me", SelectedOptionIDs: []string{"x", "z"}},
	}
	all := append([]VoteRecord{
		{PollID: "p1", VoterID: "u2", SelectedOptionIDs: []string{"a"}},
		{PollID: "p2", VoterID: "u2", SelectedOptionIDs: []string{"y"}},
		{PollID: "p2", VoterID: "u3", SelectedOptionIDs: []string{"x"}},
	}, own...)

	voted := BuildVotedPolls([]Poll{p1, p2}, own, all)

	require.Len(t, voted, 2)
	assert.Equal(t, "p1", voted[0].Poll.ID)
	assert.Equal(t, 2, voted[0].TotalVoters)
	assert.False(t, voted[0].Results[0].Selected)
	assert.True(t, voted[0].Results[1].Selected)

	assert.Equal(t, 3, voted[1].TotalVoters)
	assert.Equal(t, []bool{true, false, true}, []bool{voted[1].Results[0].Selected, voted[1].Results[1].Selected, voted[1].Results[2].Selected})
	assert.Equal(t, []int{2, 1, 1}, []int{voted[1].Results[0].Votes, voted[1].Results[1].Votes, voted[1].Results[2].Votes})
	// 他の投票で選んだ ID は別の投票の表示に影響しない
	assert.Equal(t, 4, TotalSelections(voted[1].Results))
}

func TestBuildVotedPollsSkipsPollsWithoutOwnVote(t *testing.T) {
	voted := BuildVotedPolls([]Poll{yesNoPoll()}, nil, []VoteRecord{{PollID: "p1", SelectedOptionIDs: []string{"a"}}})

	assert.Empty(t, voted)
}
