package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	mu      sync.Mutex
	token   string
	cleared int
	err     error
}

func (f *fakeCreds) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.err
}

func (f *fakeCreds) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) last(t *testing.T) Notice {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.notices)
	return r.notices[len(r.notices)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc, creds *fakeCreds, opts ...Option) (*HTTPClient, *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	n := &recordingNotifier{}
	opts = append([]Option{WithNotifier(n)}, opts...)
	return NewHTTPClient(srv.URL+"/api", 2*time.Second, creds, opts...), n
}

func TestSend_AttachesBearerAndDecodesData(t *testing.T) {
	var gotAuth, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "message": "ok", "data": []map[string]any{{"id": 1, "name": "Cafe"}}})
	}, &fakeCreds{token: "opaque-token"})

	scenarios, err := c.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", gotAuth)
	assert.Equal(t, "/api/dialogue/scenarios", gotPath)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Cafe", scenarios[0].Name)
}

func TestSend_NoCredentialNoHeader(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "data": nil})
	}, &fakeCreds{})

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, gotAuth)
}

func TestSend_AnonymousCallSkipsCredential(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": map[string]any{"token": "new", "user": map[string]any{"id": 3, "username": "ann"}}})
	}, &fakeCreds{token: "stale"})

	res, err := c.Login(context.Background(), models.LoginRequest{Username: "ann", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "new", res.Token)
	assert.Equal(t, "ann", res.User.Username)
}

func TestSend_BusinessFailure(t *testing.T) {
	c, n := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 1, "message": "quota exceeded"})
	}, &fakeCreds{token: "t"})

	_, err := c.SendMessage(context.Background(), 42, "Test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusiness))
	assert.Equal(t, "quota exceeded", err.Error())

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Code)
	assert.Equal(t, Notice{Severity: SeverityError, Message: "quota exceeded", Kind: ErrBusiness}, n.last(t))
}

func TestSend_BusinessFailureWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 500})
	}, &fakeCreds{})

	err := c.EndSession(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, MsgRequestFailed, err.Error())
}

func TestSend_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		kind     error
		severity Severity
		notice   string
		message  string
	}{
		{"forbidden", 403, map[string]any{"code": 403, "message": "no access"}, ErrForbidden, SeverityError, MsgAccessDenied, "no access"},
		{"not found", 404, nil, ErrNotFound, SeverityError, MsgNotFound, "Request failed with status code 404"},
		{"rate limited", 429, nil, ErrRateLimited, SeverityWarning, MsgRateLimited, "Request failed with status code 429"},
		{"internal", 500, map[string]any{"code": 500, "message": "boom"}, ErrServer, SeverityError, MsgServerError, "boom"},
		{"bad gateway", 502, nil, ErrServer, SeverityError, MsgServerError, "Request failed with status code 502"},
		{"bad request", 400, map[string]any{"code": 400, "message": "invalid difficulty"}, ErrRequestFailed, SeverityError, "invalid difficulty", "invalid difficulty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &fakeCreds{token: "t"}
			c, n := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}, creds)

			_, err := c.GenerateQuiz(context.Background(), models.DifficultyHard)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.message, err.Error())

			got := n.last(t)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.notice, got.Message)

			assert.Equal(t, 0, creds.cleared)
			assert.Equal(t, "t", creds.token)
		})
	}
}

func TestSend_UnauthorizedClearsCredentialAndNotifiesHandler(t *testing.T) {
	creds := &fakeCreds{token: "t"}
	var events []string
	c, n := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "token invalid"})
	}, creds, WithUnauthenticatedHandler(func(ctx context.Context) {
		events = append(events, "unauthenticated")
	}))

	_, err := c.Statistics(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, creds.cleared)
	assert.Empty(t, creds.token)
	assert.Equal(t, []string{"unauthenticated"}, events)
	assert.Equal(t, MsgSessionExpired, n.last(t).Message)
}

func TestSend_ExpiredJWTIsNotSent(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	calls := 0
	creds := &fakeCreds{token: signed}
	fired := false
	c, n := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{"code": 0})
	}, creds,
		WithClock(func() time.Time { return now }),
		WithUnauthenticatedHandler(func(context.Context) { fired = true }),
	)

	_, err = c.QuizHistory(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, creds.cleared)
	assert.True(t, fired)
	assert.Equal(t, MsgSessionExpired, n.last(t).Message)
}

func TestSend_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := &recordingNotifier{}
	creds := &fakeCreds{token: "t"}
	c := NewHTTPClient(url, time.Second, creds, WithNotifier(n))

	_, err := c.ListScenarios(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.NotEmpty(t, err.Error())

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 0, e.Status)
	assert.Equal(t, err.Error(), n.last(t).Message)
	assert.Equal(t, 0, creds.cleared)
}

func TestSend_TimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewHTTPClient(srv.URL, 50*time.Millisecond, &fakeCreds{})

	_, err := c.QuizHistory(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, "timeout of 50ms exceeded", err.Error())
}

func TestSend_MalformedEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	}, &fakeCreds{})

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestRecords_QueryParameters(t *testing.T) {
	var got map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": map[string]any{"records": []any{}, "total": 0, "page": 2, "pageSize": 10, "totalPages": 0}})
	}, &fakeCreds{})

	page, err := c.ListRecords(context.Background(), models.RecordQuery{Page: 2, PageSize: 10, ActivityType: models.ActivityQuiz})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, map[string]string{"page": "2", "pageSize": "10", "activityType": "QUIZ"}, got)
}

func TestSubmitQuiz_SendsAnswers(t *testing.T) {
	var body struct {
		Answers []models.QuizAnswer `json:"answers"`
	}
	var path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": map[string]any{"quizId": 9, "userScore": 10, "totalScore": 30}})
	}, &fakeCreds{})

	res, err := c.SubmitQuiz(context.Background(), 9, []models.QuizAnswer{{QuestionID: 1, Answer: "a"}})
	require.NoError(t, err)
	assert.Equal(t, "/api/quiz/9/submit", path)
	assert.Equal(t, []models.QuizAnswer{{QuestionID: 1, Answer: "a"}}, body.Answers)
	assert.Equal(t, 10, res.UserScore)
}

func TestQueryWord_PostsRequest(t *testing.T) {
	var body models.WordQueryRequest
	var method, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": map[string]any{
			"id": 3, "word": "hello", "translation": "你好", "examples": `["Hello!"]`,
		}})
	}, &fakeCreds{})

	req := models.WordQueryRequest{Word: "hello", SourceLang: "en", TargetLang: "zh"}
	w, err := c.QueryWord(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/words/query", path)
	assert.Equal(t, req, body)
	assert.Equal(t, "你好", w.Translation)
}

func TestWordHistory_NullDataIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/words/history", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": nil})
	}, &fakeCreds{})

	history, err := c.WordHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}
