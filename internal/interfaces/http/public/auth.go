package public

import (
	"context"
	"net/http"

	"github.com/sngm3741/pollbox/api/internal/identity/application"
	"github.com/sngm3741/pollbox/api/internal/interfaces/http/common"
)

func (h *Handler) signUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteErrorKind(h.logger, w, http.StatusBadRequest, common.KindValidation, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		user, err := h.auth.SignUp(ctx, application.SignUpCommand{
			UserID:      req.UserID,
			FullName:    req.FullName,
			DateOfBirth: req.DateOfBirth,
			Gender:      req.Gender,
			UserName:    req.UserName,
			Email:       req.Email,
			Password:    req.Password,
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, signUpResponse{
			Message: "user created successfully",
			UserID:  user.UserID,
		})
	}
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteErrorKind(h.logger, w, http.StatusBadRequest, common.KindValidation, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		token, err := h.auth.Login(ctx, req.UserName, req.Password)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{JWTToken: token})
	}
}

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteErrorKind(h.logger, w, http.StatusUnauthorized, common.KindAuth, "authentication required")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
