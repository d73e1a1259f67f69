package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
)

func newTestServer(t *testing.T, secret string) (*Server, http.Handler) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(session.New(db, nil, nil), Options{JWTSecret: secret, Language: "en"}, nil)
	s.now = func() time.Time { return time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC) }
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func create(t *testing.T, h http.Handler, lang, token string) store.Session {
	t.Helper()
	rec := do(t, h, "POST", "/v1/sessions", map[string]string{"language": lang}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, "secret")
	rec := do(t, h, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestQuestions(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := do(t, h, "GET", "/v1/questions?lang=de&phase=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp questionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "de", resp.Language)
	require.Len(t, resp.Phases, 1)
	assert.Len(t, resp.Questions, 15)
	assert.Equal(t, 21, resp.Questions[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/v1/questions?lang=fr", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/v1/questions?phase=4", nil, "").Code)
}

func TestSessionLifecycle(t *testing.T) {
	_, h := newTestServer(t, "")
	sess := create(t, h, "en", "")
	base := "/v1/sessions/" + sess.ID

	rec := do(t, h, "PUT", base+"/answers/1", map[string]interface{}{"choice": "B", "intensity": 3}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 1, updated.AnswerCount)

	rec = do(t, h, "GET", base+"/analysis", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result assessment.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 8, result.Traits.Get(assessment.Openness))

	rec = do(t, h, "GET", base+"/answers", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"1":{"choice":"B","intensity":3}}`, rec.Body.String())

	rec = do(t, h, "DELETE", base+"/answers/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, "GET", base+"/analysis", nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.Traits.Get(assessment.Openness))

	rec = do(t, h, "GET", "/v1/sessions", nil, "")
	var list []store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", base, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", base, nil, "").Code)
}

func TestPutAnswer_Errors(t *testing.T) {
	_, h := newTestServer(t, "")
	sess := create(t, h, "en", "")
	base := "/v1/sessions/" + sess.ID

	tests := []struct {
		name string
		path string
		body interface{}
		want int
	}{
		{"bad choice", base + "/answers/1", map[string]interface{}{"choice": "C", "intensity": 1}, http.StatusBadRequest},
		{"bad intensity", base + "/answers/1", map[string]interface{}{"choice": "A", "intensity": 0}, http.StatusBadRequest},
		{"unknown question", base + "/answers/44", map[string]interface{}{"choice": "A", "intensity": 1}, http.StatusNotFound},
		{"unknown session", "/v1/sessions/nope/answers/1", map[string]interface{}{"choice": "A", "intensity": 1}, http.StatusNotFound},
		{"non-numeric question", base + "/answers/x", map[string]interface{}{"choice": "A", "intensity": 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "PUT", tt.path, tt.body, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateSession_DefaultsAndErrors(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := do(t, h, "POST", "/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, "en", sess.Language)

	rec = do(t, h, "POST", "/v1/sessions", map[string]string{"language": "xx"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	_, h := newTestServer(t, "")
	sess := create(t, h, "de", "")
	base := "/v1/sessions/" + sess.ID

	rec := do(t, h, "GET", base+"/report", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "07. März 2026")

	rec = do(t, h, "GET", base+"/report?format=html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<!DOCTYPE html>"))

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", base+"/report?format=pdf", nil, "").Code)
}

func TestPromptAndNarrative(t *testing.T) {
	s, h := newTestServer(t, "")
	sess := create(t, h, "en", "")
	base := "/v1/sessions/" + sess.ID
	do(t, h, "PUT", base+"/answers/21", map[string]interface{}{"choice": "A", "intensity": 2}, "")

	rec := do(t, h, "GET", base+"/prompt", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pd session.PromptData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	assert.Equal(t, 1, pd.Answered)
	assert.Contains(t, pd.Data, "Q21 [")

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", base+"/narrative", nil, "").Code)

	require.NoError(t, s.svc.SaveNarrative(t.Context(), &store.Narrative{
		SessionID: sess.ID, Language: "en", Model: "test", Markdown: "# Report\n\nBody", CreatedAt: time.Now(),
	}))
	rec = do(t, h, "GET", base+"/narrative?format=md", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Report\n\nBody", rec.Body.String())

	rec = do(t, h, "GET", base+"/narrative?format=html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1")
}

func TestSnapshots(t *testing.T) {
	_, h := newTestServer(t, "")
	sess := create(t, h, "en", "")
	base := "/v1/sessions/" + sess.ID

	assert.Equal(t, http.StatusCreated, do(t, h, "POST", base+"/snapshots", nil, "").Code)
	assert.Equal(t, http.StatusCreated, do(t, h, "POST", base+"/snapshots", nil, "").Code)

	rec := do(t, h, "GET", base+"/snapshots?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snaps []store.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	assert.Len(t, snaps, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", base+"/snapshots?limit=0", nil, "").Code)
}

func TestAuth(t *testing.T) {
	_, h := newTestServer(t, "s3cret")

	rec := do(t, h, "GET", "/v1/questions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, "GET", "/v1/questions", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := IssueToken("other", "me", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/v1/questions", nil, other).Code)

	noExpiry, err := IssueToken("s3cret", "me", -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/v1/questions", nil, noExpiry).Code, "non-positive ttl issues a token without expiry")

	token, err := IssueToken("s3cret", "me", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/v1/questions", nil, token).Code)
	create(t, h, "en", token)
}

func TestTokens(t *testing.T) {
	_, err := IssueToken("", "me", time.Hour)
	assert.Error(t, err)

	token, err := IssueToken("k", "alice", time.Minute)
	require.NoError(t, err)
	claims, err := ParseToken("k", token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "usermanual", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)

	_, err = ParseToken("wrong", token)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, extractBearerToken(req), tt.header)
	}
}
