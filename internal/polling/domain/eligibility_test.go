package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalog() []Poll {
	return []Poll{
		{ID: "p3", QuestionText: "Best pizza topping?", Category: "Food and Drink", ChoiceType: ChoiceSingle},
		{ID: "p1", QuestionText: "Favourite editor?", Category: "Technology and Gadgets", ChoiceType: ChoiceMultiple},
		{ID: "p2", QuestionText: "Which PIZZA chain?", Category: "Food and Drink", ChoiceType: ChoiceMultiple},
	}
}

func pollIDs(polls []Poll) []string {
	ids := make([]string, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestLivePollsWithoutVotesReturnsCatalogUnchanged(t *testing.T) {
	all := catalog()

	live := LivePolls(all, nil)

	assert.Equal(t, all, live)
	assert.Equal(t, []string{"p3", "p1", "p2"}, pollIDs(live))
}

func TestLivePollsExcludesAnsweredAndKeepsOrder(t *testing.T) {
	votes := []VoteRecord{
		{PollID: "p1", VoterID: "u1", SelectedOptionIDs: []string{"a"}},
		{PollID: "unknown", VoterID: "u1", SelectedOptionIDs: []string{"a"}},
	}

	live := LivePolls(catalog(), votes)

	assert.Equal(t, []string{"p3", "p2"}, pollIDs(live))
}

func TestLivePollsAllAnswered(t *testing.T) {
	votes := []VoteRecord{{PollID: "p1"}, {PollID: "p2"}, {PollID: "p3"}}

	assert.Empty(t, LivePolls(catalog(), votes))
}

func TestLivePollsEmptyCatalog(t *testing.T) {
	assert.Empty(t, LivePolls(nil, []VoteRecord{{PollID: "p1"}}))
	assert.Empty(t, LivePolls(nil, nil))
}

func TestFilterPolls(t *testing.T) {
	tests := []struct {
		name   string
		filter PollFilter
		want   []string
	}{
		{name: "no filter", filter: PollFilter{}, want: []string{"p3", "p1", "p2"}},
		{name: "search is case insensitive", filter: PollFilter{Search: "  pizza "}, want: []string{"p3", "p2"}},
		{name: "category", filter: PollFilter{Category: "Technology and Gadgets"}, want: []string{"p1"}},
		{name: "choice type", filter: PollFilter{ChoiceType: ChoiceMultiple}, want: []string{"p1", "p2"}},
		{name: "combined", filter: PollFilter{Search: "pizza", ChoiceType: ChoiceSingle}, want: []string{"p3"}},
		{name: "no match", filter: PollFilter{Category: "Education"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pollIDs(FilterPolls(catalog(), tt.filter)))
		})
	}
}
