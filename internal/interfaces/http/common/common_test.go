package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "github.com/sngm3741/pollbox/api/internal/identity/domain"
	polling "github.com/sngm3741/pollbox/api/internal/polling/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{identity.ErrInvalidToken, http.StatusUnauthorized, KindAuth},
		{identity.ErrInvalidCredentials, http.StatusUnauthorized, KindAuth},
		{fmt.Errorf("%w: password too short", identity.ErrInvalidSignUp), http.StatusBadRequest, KindValidation},
		{fmt.Errorf("%w: category is required", polling.ErrInvalidDraft), http.StatusBadRequest, KindValidation},
		{polling.ErrEmptySelection, http.StatusBadRequest, KindValidation},
		{polling.ErrUnknownOption, http.StatusBadRequest, KindValidation},
		{polling.ErrTooManySelections, http.StatusBadRequest, KindValidation},
		{polling.ErrAlreadyVoted, http.StatusConflict, KindConflict},
		{polling.ErrPollExists, http.StatusConflict, KindConflict},
		{identity.ErrUsernameTaken, http.StatusConflict, KindConflict},
		{identity.ErrEmailTaken, http.StatusConflict, KindConflict},
		{polling.ErrNotFoundOrForbidden, http.StatusNotFound, KindNotFound},
		{errors.New("socket closed"), http.StatusInternalServerError, KindCollaborator},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, kind := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestWriteErrorHidesCollaboratorDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(nil, rec, errors.New("mongo: server selection timeout at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, KindCollaborator, body.Error)
	assert.NotContains(t, body.Message, "10.0.0.3")
}

func TestWriteErrorWithContextLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	rec := httptest.NewRecorder()

	WriteErrorWithContext(logger, rec, errors.New("connection reset"), `poll="p1" voter="u1"`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `poll="p1" voter="u1"`)
	assert.Contains(t, lines[0], "connection reset")
}

func TestWriteErrorWithContextSkipsLogForDomainErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	rec := httptest.NewRecorder()

	WriteErrorWithContext(logger, rec, polling.ErrNotFoundOrForbidden, `poll="p1"`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, buf.String())
}

func TestWriteErrorKeepsDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(nil, rec, polling.ErrAlreadyVoted)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: KindConflict, Message: polling.ErrAlreadyVoted.Error()}, body)
}

type sampleRequest struct {
	Name  string   `json:"name" validate:"required"`
	Email string   `json:"email" validate:"required,email"`
	Tags  []string `json:"tags" validate:"min=1"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"a","email":"a@example.com","tags":["x"]}`},
		{name: "empty", body: ``, wantErr: "request body is empty"},
		{name: "unknown field", body: `{"name":"a","email":"a@example.com","tags":["x"],"extra":1}`, wantErr: "malformed request body"},
		{name: "missing name", body: `{"email":"a@example.com","tags":["x"]}`, wantErr: "name is required"},
		{name: "bad email", body: `{"name":"a","email":"nope","tags":["x"]}`, wantErr: "email must be a valid email address"},
		{name: "no tags", body: `{"name":"a","email":"a@example.com","tags":[]}`, wantErr: "tags must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sampleRequest
			err := DecodeJSON(req, &dst)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
