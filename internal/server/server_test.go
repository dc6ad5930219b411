package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/pollbox/api/internal/config"
	"github.com/sngm3741/pollbox/api/internal/interfaces/http/common"
)

func newTestServer(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	srv, err := New(config.Config{
		Addr:           ":0",
		StoreDriver:    config.StoreMemory,
		ServerLog:      log.New(io.Discard, "", 0),
		JWT:            config.JWTConfig{Secret: []byte("secret"), Issuer: "pollbox-auth", TTL: time.Hour},
		AllowedOrigins: origins,
		BcryptCost:     4,
	}, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func postJSON(t *testing.T, h http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(config.Config{ServerLog: log.New(io.Discard, "", 0)}, nil)
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t)

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"scheme only":    "Bearer",
		"no separator":   "Bearerabc",
		"empty token":    "Bearer   ",
		"invalid token":  "Bearer not-a-jwt",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rec := get(h, "/polls/live", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body common.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, common.KindAuth, body.Error)
		})
	}
}

func TestEndToEndWithIssuedToken(t *testing.T) {
	h := newTestServer(t)

	rec := postJSON(t, h, "/sign-up", "", map[string]string{
		"fullName": "Alice Example",
		"dob":      "1990-01-01",
		"gender":   "female",
		"userName": "alice",
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, h, "/login", "", map[string]string{"userName": "alice", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		JWTToken string `json:"jwtToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	rec = get(h, "/auth/verify", "Bearer "+login.JWTToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var verify struct {
		Status string                   `json:"status"`
		User   common.AuthenticatedUser `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&verify))
	assert.Equal(t, "alice", verify.User.Username)
	assert.NotEmpty(t, verify.User.ID)

	for _, scheme := range []string{"bearer", "BEARER", "bEaReR"} {
		rec = get(h, "/auth/verify", scheme+" "+login.JWTToken)
		assert.Equal(t, http.StatusOK, rec.Code, scheme)
	}

	rec = postJSON(t, h, "/polls", login.JWTToken, map[string]any{
		"category":     "Others",
		"questionText": "Coffee or tea?",
		"choiceType":   "SINGLE",
		"options": []map[string]string{
			{"id": "coffee", "label": "Coffee"},
			{"id": "tea", "label": "Tea"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = get(h, "/polls/mine", "Bearer "+login.JWTToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine struct {
		Items []struct {
			PollID  string `json:"pollId"`
			OwnerID string `json:"ownerId"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&mine))
	require.Len(t, mine.Items, 1)
	assert.NotEmpty(t, mine.Items[0].PollID)
	assert.Equal(t, verify.User.ID, mine.Items[0].OwnerID)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, "https://app.example")

	req := httptest.NewRequest(http.MethodOptions, "/polls/live", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
