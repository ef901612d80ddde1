package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
)

// fakeClient implements client.Client for the service tests. Unset hooks
// return zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginFn          func(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	RegisterFn       func(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	LogoutErr        error
	CurrentUserFn    func(ctx context.Context) (*models.User, error)
	ListScenariosFn  func(ctx context.Context) ([]models.Scenario, error)
	CreateScenarioFn func(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error)
	StartSessionFn   func(ctx context.Context, scenarioID int64, targetLang string) (*models.DialogueSession, error)
	GetSessionFn     func(ctx context.Context, sessionID int64) (*models.DialogueSession, error)
	SendMessageFn    func(ctx context.Context, sessionID int64, content string) (*models.DialogueMessage, error)
	EndSessionErr    error
	QueryWordFn      func(ctx context.Context, req models.WordQueryRequest) (*models.Word, error)
	WordHistoryFn    func(ctx context.Context) ([]models.WordHistory, error)
	GenerateQuizFn   func(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error)
	SubmitQuizFn     func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error)
	QuizHistoryFn    func(ctx context.Context) ([]models.Quiz, error)
	ListRecordsFn    func(ctx context.Context, q models.RecordQuery) (*models.RecordsPage, error)
	StatisticsFn     func(ctx context.Context) (*models.Statistics, error)
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	f.record("Login")
	if f.LoginFn == nil {
		return &models.LoginResult{}, nil
	}
	return f.LoginFn(ctx, req)
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	f.record("Register")
	if f.RegisterFn == nil {
		return &models.User{Username: req.Username}, nil
	}
	return f.RegisterFn(ctx, req)
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.LogoutErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	f.record("CurrentUser")
	if f.CurrentUserFn == nil {
		return &models.User{}, nil
	}
	return f.CurrentUserFn(ctx)
}

func (f *fakeClient) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	f.record("ListScenarios")
	if f.ListScenariosFn == nil {
		return nil, nil
	}
	return f.ListScenariosFn(ctx)
}

func (f *fakeClient) CreateScenario(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error) {
	f.record("CreateScenario")
	if f.CreateScenarioFn == nil {
		return &models.Scenario{Name: req.Name}, nil
	}
	return f.CreateScenarioFn(ctx, req)
}

func (f *fakeClient) StartSession(ctx context.Context, scenarioID int64, targetLang string) (*models.DialogueSession, error) {
	f.record("StartSession")
	if f.StartSessionFn == nil {
		return &models.DialogueSession{ScenarioID: scenarioID}, nil
	}
	return f.StartSessionFn(ctx, scenarioID, targetLang)
}

func (f *fakeClient) GetSession(ctx context.Context, sessionID int64) (*models.DialogueSession, error) {
	f.record("GetSession")
	if f.GetSessionFn == nil {
		return &models.DialogueSession{ID: sessionID}, nil
	}
	return f.GetSessionFn(ctx, sessionID)
}

func (f *fakeClient) SendMessage(ctx context.Context, sessionID int64, content string) (*models.DialogueMessage, error) {
	f.record("SendMessage")
	if f.SendMessageFn == nil {
		return &models.DialogueMessage{Role: models.RoleAssistant}, nil
	}
	return f.SendMessageFn(ctx, sessionID, content)
}

func (f *fakeClient) EndSession(ctx context.Context, sessionID int64) error {
	f.record("EndSession")
	return f.EndSessionErr
}

func (f *fakeClient) QueryWord(ctx context.Context, req models.WordQueryRequest) (*models.Word, error) {
	f.record("QueryWord")
	if f.QueryWordFn == nil {
		return &models.Word{Word: req.Word, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
	}
	return f.QueryWordFn(ctx, req)
}

func (f *fakeClient) WordHistory(ctx context.Context) ([]models.WordHistory, error) {
	f.record("WordHistory")
	if f.WordHistoryFn == nil {
		return nil, nil
	}
	return f.WordHistoryFn(ctx)
}

func (f *fakeClient) GenerateQuiz(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error) {
	f.record("GenerateQuiz")
	if f.GenerateQuizFn == nil {
		return &models.Quiz{Difficulty: difficulty}, nil
	}
	return f.GenerateQuizFn(ctx, difficulty)
}

func (f *fakeClient) SubmitQuiz(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
	f.record("SubmitQuiz")
	if f.SubmitQuizFn == nil {
		return &models.QuizResult{QuizID: quizID}, nil
	}
	return f.SubmitQuizFn(ctx, quizID, answers)
}

func (f *fakeClient) QuizHistory(ctx context.Context) ([]models.Quiz, error) {
	f.record("QuizHistory")
	if f.QuizHistoryFn == nil {
		return nil, nil
	}
	return f.QuizHistoryFn(ctx)
}

func (f *fakeClient) ListRecords(ctx context.Context, q models.RecordQuery) (*models.RecordsPage, error) {
	f.record("ListRecords")
	if f.ListRecordsFn == nil {
		return &models.RecordsPage{Page: q.Page, PageSize: q.PageSize}, nil
	}
	return f.ListRecordsFn(ctx, q)
}

func (f *fakeClient) Statistics(ctx context.Context) (*models.Statistics, error) {
	f.record("Statistics")
	if f.StatisticsFn == nil {
		return &models.Statistics{}, nil
	}
	return f.StatisticsFn(ctx)
}

// businessErr mimics a classified envelope failure.
func businessErr(code int, msg string) error {
	return &client.Error{Kind: client.ErrBusiness, Code: code, Message: msg}
}
