package public

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/pollbox/api/internal/interfaces/http/common"
	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

func (h *Handler) livePollsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		filter, err := parsePollFilter(r)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		polls, err := h.queries.LivePolls(ctx, user.ID, filter)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pollListResponse{Items: buildPollResponses(polls)})
	}
}

func (h *Handler) ownedPollsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		polls, err := h.queries.OwnedPolls(ctx, user.ID)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pollListResponse{Items: buildPollResponses(polls)})
	}
}

func (h *Handler) votedPollsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		filter, err := parsePollFilter(r)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		voted, err := h.queries.VotedPolls(ctx, user.ID, filter)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		items := make([]votedPollResponse, 0, len(voted))
		for _, v := range voted {
			items = append(items, votedPollResponse{
				Poll:       buildPollResponse(v.Poll),
				Results:    buildResultResponses(v.Results),
				TotalVotes: v.TotalVoters,
				VotedAt:    v.VotedAt,
			})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, votedPollListResponse{Items: items})
	}
}

func (h *Handler) createPollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		var req createPollRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteErrorKind(h.logger, w, http.StatusBadRequest, common.KindValidation, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		poll, err := h.polls.Create(ctx, user.ID, req.toDraft())
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildPollResponse(*poll))
	}
}

// pollDetailHandler は所有者に限らず、認証済みの利用者なら誰でも集計を閲覧できる。
func (h *Handler) pollDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.requireUser(w, r); !ok {
			return
		}
		pollID := strings.TrimSpace(chi.URLParam(r, "pollId"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		detail, err := h.queries.Detail(ctx, pollID)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, pollDetailResponse{
			Poll:            buildPollResponse(detail.Poll),
			Results:         buildResultResponses(detail.Results),
			TotalVotes:      detail.TotalVoters,
			TotalSelections: detail.TotalSelections,
		})
	}
}

func (h *Handler) deletePollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		pollID := strings.TrimSpace(chi.URLParam(r, "pollId"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.polls.Delete(ctx, user.ID, pollID); err != nil {
			common.WriteErrorWithContext(h.logger, w, err, fmt.Sprintf("投票の削除に失敗: poll=%q owner=%q", pollID, user.ID))
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, messageResponse{Message: "poll deleted successfully"})
	}
}

// requireUser は認証ミドルウェアが詰めた利用者を取り出す。欠けていれば 401 を書き込む。
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok || user.ID == "" {
		common.WriteErrorKind(h.logger, w, http.StatusUnauthorized, common.KindAuth, "authentication required")
		return common.AuthenticatedUser{}, false
	}
	return user, true
}

// parsePollFilter は search / category / choiceType クエリを読み取る。空または "all" は条件なし。
func parsePollFilter(r *http.Request) (domain.PollFilter, error) {
	query := r.URL.Query()
	filter := domain.PollFilter{Search: strings.TrimSpace(query.Get("search"))}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" && !strings.EqualFold(raw, "all") {
		category, err := domain.NewCategory(raw)
		if err != nil {
			return domain.PollFilter{}, err
		}
		filter.Category = category
	}
	if raw := strings.TrimSpace(query.Get("choiceType")); raw != "" && !strings.EqualFold(raw, "all") {
		choiceType, err := domain.NewChoiceType(raw)
		if err != nil {
			return domain.PollFilter{}, err
		}
		filter.ChoiceType = choiceType
	}
	return filter, nil
}
