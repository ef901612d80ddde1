package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
)

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	var res models.LoginResult
	spec := MethodSpec{Method: http.MethodPost, Path: "/auth/login", Body: req, Anonymous: true}
	if err := c.Send(ctx, spec, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	spec := MethodSpec{Method: http.MethodPost, Path: "/auth/register", Body: req, Anonymous: true}
	if err := c.Send(ctx, spec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.Send(ctx, MethodSpec{Method: http.MethodPost, Path: "/auth/logout"}, nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Send(ctx, MethodSpec{Method: http.MethodGet, Path: "/auth/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	if err := c.Send(ctx, MethodSpec{Method: http.MethodGet, Path: "/dialogue/scenarios"}, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (c *HTTPClient) CreateScenario(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error) {
	var scenario models.Scenario
	spec := MethodSpec{Method: http.MethodPost, Path: "/dialogue/scenarios", Body: req}
	if err := c.Send(ctx, spec, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

type startSessionRequest struct {
	ScenarioID int64  `json:"scenarioId"`
	TargetLang string `json:"targetLang"`
}

func (c *HTTPClient) StartSession(ctx context.Context, scenarioID int64, targetLang string) (*models.DialogueSession, error) {
	var session models.DialogueSession
	spec := MethodSpec{
		Method: http.MethodPost,
		Path:   "/dialogue/sessions",
		Body:   startSessionRequest{ScenarioID: scenarioID, TargetLang: targetLang},
	}
	if err := c.Send(ctx, spec, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID int64) (*models.DialogueSession, error) {
	var session models.DialogueSession
	spec := MethodSpec{Method: http.MethodGet, Path: fmt.Sprintf("/dialogue/sessions/%d", sessionID)}
	if err := c.Send(ctx, spec, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage returns the assistant reply. The reply may come without a
// timestamp; callers stamp it on receipt.
func (c *HTTPClient) SendMessage(ctx context.Context, sessionID int64, content string) (*models.DialogueMessage, error) {
	var reply models.DialogueMessage
	spec := MethodSpec{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/dialogue/sessions/%d/messages", sessionID),
		Body:   sendMessageRequest{Message: content},
	}
	if err := c.Send(ctx, spec, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *HTTPClient) EndSession(ctx context.Context, sessionID int64) error {
	spec := MethodSpec{Method: http.MethodDelete, Path: fmt.Sprintf("/dialogue/sessions/%d", sessionID)}
	return c.Send(ctx, spec, nil)
}

func (c *HTTPClient) QueryWord(ctx context.Context, req models.WordQueryRequest) (*models.Word, error) {
	var word models.Word
	spec := MethodSpec{Method: http.MethodPost, Path: "/words/query", Body: req}
	if err := c.Send(ctx, spec, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

func (c *HTTPClient) WordHistory(ctx context.Context) ([]models.WordHistory, error) {
	var history []models.WordHistory
	if err := c.Send(ctx, MethodSpec{Method: http.MethodGet, Path: "/words/history"}, &history); err != nil {
		return nil, err
	}
	return history, nil
}

type generateQuizRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
}

func (c *HTTPClient) GenerateQuiz(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error) {
	var quiz models.Quiz
	spec := MethodSpec{Method: http.MethodPost, Path: "/quiz/generate", Body: generateQuizRequest{Difficulty: difficulty}}
	if err := c.Send(ctx, spec, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

type submitQuizRequest struct {
	Answers []models.QuizAnswer `json:"answers"`
}

func (c *HTTPClient) SubmitQuiz(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
	if answers == nil {
		answers = []models.QuizAnswer{}
	}
	var result models.QuizResult
	spec := MethodSpec{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/quiz/%d/submit", quizID),
		Body:   submitQuizRequest{Answers: answers},
	}
	if err := c.Send(ctx, spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) QuizHistory(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.Send(ctx, MethodSpec{Method: http.MethodGet, Path: "/quiz/history"}, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *HTTPClient) ListRecords(ctx context.Context, q models.RecordQuery) (*models.RecordsPage, error) {
	var page models.RecordsPage
	spec := MethodSpec{Method: http.MethodGet, Path: "/records", Query: q.Values()}
	if err := c.Send(ctx, spec, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.Send(ctx, MethodSpec{Method: http.MethodGet, Path: "/records/statistics"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
