package public

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/pollbox/api/internal/interfaces/http/common"
	"github.com/sngm3741/pollbox/api/internal/polling/application"
)

func (h *Handler) submitVoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		pollID := strings.TrimSpace(chi.URLParam(r, "pollId"))

		var req submitVoteRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteErrorKind(h.logger, w, http.StatusBadRequest, common.KindValidation, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		vote, err := h.votes.Submit(ctx, application.SubmitVoteCommand{
			PollID:            pollID,
			VoterID:           user.ID,
			SelectedOptionIDs: req.SelectedOptionIDs,
		})
		if err != nil {
			common.WriteErrorWithContext(h.logger, w, err, fmt.Sprintf("投票の記録に失敗: poll=%q voter=%q", pollID, user.ID))
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, voteResponse{
			ID:                vote.ID,
			PollID:            vote.PollID,
			VoterID:           vote.VoterID,
			SelectedOptionIDs: vote.SelectedOptionIDs,
			VotedAt:           vote.VotedAt,
		})
	}
}
