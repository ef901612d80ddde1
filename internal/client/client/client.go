package client

import (
	"context"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
)

// Client is the remote service contract consumed by the client services.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)

	ListScenarios(ctx context.Context) ([]models.Scenario, error)
	CreateScenario(ctx context.Context, req models.CreateScenarioRequest) (*models.Scenario, error)
	StartSession(ctx context.Context, scenarioID int64, targetLang string) (*models.DialogueSession, error)
	GetSession(ctx context.Context, sessionID int64) (*models.DialogueSession, error)
	SendMessage(ctx context.Context, sessionID int64, content string) (*models.DialogueMessage, error)
	EndSession(ctx context.Context, sessionID int64) error

	QueryWord(ctx context.Context, req models.WordQueryRequest) (*models.Word, error)
	WordHistory(ctx context.Context) ([]models.WordHistory, error)

	GenerateQuiz(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error)
	SubmitQuiz(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error)
	QuizHistory(ctx context.Context) ([]models.Quiz, error)

	ListRecords(ctx context.Context, q models.RecordQuery) (*models.RecordsPage, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

// CredentialStore is where the pipeline reads the bearer credential from and
// clears it on authentication failure.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
