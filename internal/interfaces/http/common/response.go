package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	identity "github.com/sngm3741/pollbox/api/internal/identity/domain"
	polling "github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// エラー種別。レスポンスの error フィールドに入る。
const (
	KindAuth         = "AuthError"
	KindValidation   = "ValidationError"
	KindConflict     = "ConflictError"
	KindNotFound     = "NotFoundError"
	KindCollaborator = "CollaboratorError"
)

const collaboratorMessage = "an internal error occurred, please try again later"

// ErrorResponse は全エンドポイント共通のエラー本文。
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// WriteErrorKind は種別とメッセージを指定してエラーを返す。
func WriteErrorKind(logger *log.Logger, w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: kind, Message: message})
}

// WriteError はドメインエラーを HTTP ステータスへ対応付けて書き込む。
// 既知の種別に当たらないエラーはストア等の障害として扱い、詳細はログにのみ残す。
func WriteError(logger *log.Logger, w http.ResponseWriter, err error) {
	WriteErrorWithContext(logger, w, err, "")
}

// WriteErrorWithContext は WriteError と同じだが、内部エラーのログ行に logContext（例: poll=… voter=…）を添える。
// ログは 1 件だけ出力する。
func WriteErrorWithContext(logger *log.Logger, w http.ResponseWriter, err error, logContext string) {
	status, kind := Classify(err)
	if kind == KindCollaborator {
		if logger != nil {
			if logContext != "" {
				logger.Printf("リクエスト処理中に内部エラー: %s err=%v", logContext, err)
			} else {
				logger.Printf("リクエスト処理中に内部エラー: %v", err)
			}
		}
		WriteErrorKind(logger, w, status, kind, collaboratorMessage)
		return
	}
	WriteErrorKind(logger, w, status, kind, err.Error())
}

// Classify returns the HTTP status and error kind for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, KindAuth
	case errors.Is(err, identity.ErrInvalidSignUp),
		errors.Is(err, polling.ErrInvalidDraft),
		errors.Is(err, polling.ErrEmptySelection),
		errors.Is(err, polling.ErrUnknownOption),
		errors.Is(err, polling.ErrTooManySelections):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, identity.ErrUsernameTaken),
		errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, polling.ErrAlreadyVoted),
		errors.Is(err, polling.ErrPollExists):
		return http.StatusConflict, KindConflict
	case errors.Is(err, polling.ErrNotFoundOrForbidden):
		return http.StatusNotFound, KindNotFound
	default:
		return http.StatusInternalServerError, KindCollaborator
	}
}
