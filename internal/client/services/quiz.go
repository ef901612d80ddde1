package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

// QuizService owns at most one current quiz and its answer sheet.
//
// Quiz lifecycle: Idle -> InProgress -> Submitted. GenerateQuiz discards
// any previous quiz, result and answers. Correct answers are hidden from
// every accessor until the quiz has been submitted.
type QuizService interface {
	GenerateQuiz(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error)
	SetAnswer(questionID int64, answer string) error
	GetAnswer(questionID int64) (string, bool)
	SubmitQuiz(ctx context.Context) (*models.QuizResult, error)
	FetchHistory(ctx context.Context) []models.Quiz
	ClearQuiz()
	ClearAll()

	CurrentQuiz() *models.Quiz
	Questions() []models.QuestionView
	Result() *models.QuizResult
	History() []models.Quiz
	Status() models.QuizStatus
	HasActiveQuiz() bool
	IsCompleted() bool
	QuestionCount() int
	AnsweredCount() int
	AllQuestionsAnswered() bool
	HistoryCount() int
	Loading() bool
	Submitting() bool
	LastError() string
}

type quizService struct {
	client client.Client
	log    logging.Logger
	now    func() time.Time

	mu         sync.Mutex
	quiz       *models.Quiz
	result     *models.QuizResult
	answers    models.AnswerSheet
	history    []models.Quiz
	status     models.QuizStatus
	generation uint64
	loading    bool
	submitting bool
	lastErr    string
}

func NewQuizService(c client.Client, log logging.Logger) QuizService {
	return &quizService{
		client: c,
		log:    log.With("service", "quiz"),
		now:    time.Now,
	}
}

func (s *quizService) GenerateQuiz(ctx context.Context, difficulty models.Difficulty) (*models.Quiz, error) {
	s.mu.Lock()
	s.resetLocked()
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	quiz, err := s.client.GenerateQuiz(ctx, difficulty)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = errorText(err, "Failed to generate quiz")
		return nil, err
	}
	if s.generation != gen {
		return quiz.Clone(true), nil
	}

	s.quiz = quiz.Clone(false)
	s.status = models.QuizInProgress
	s.log.Info(ctx, "quiz generated", "quiz_id", quiz.ID, "difficulty", string(difficulty), "questions", len(quiz.Questions))
	return quiz.Clone(true), nil
}

// SetAnswer records the answer for a question, replacing any earlier one.
func (s *quizService) SetAnswer(questionID int64, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil || s.status != models.QuizInProgress {
		return ErrNoActiveQuiz
	}
	if !s.quiz.HasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.answers.Set(questionID, answer)
	return nil
}

func (s *quizService) GetAnswer(questionID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Get(questionID)
}

// SubmitQuiz sends the answers given so far in one call. The answer sheet is
// copied before the call, so answers set while it is in flight are not part
// of this submission. A successful submission triggers a history refresh
// whose failure does not affect the returned result.
func (s *quizService) SubmitQuiz(ctx context.Context) (*models.QuizResult, error) {
	s.mu.Lock()
	if s.quiz == nil {
		s.lastErr = "No active quiz"
		s.mu.Unlock()
		return nil, ErrNoActiveQuiz
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	quizID := s.quiz.ID
	gen := s.generation
	answers := s.answers.Snapshot()
	s.submitting = true
	s.lastErr = ""
	s.mu.Unlock()

	result, err := s.client.SubmitQuiz(ctx, quizID, answers)

	s.mu.Lock()
	current := s.generation == gen
	if current {
		s.submitting = false
	}
	if err != nil {
		if current {
			s.lastErr = errorText(err, "Failed to submit quiz")
		}
		s.mu.Unlock()
		return nil, err
	}
	if current {
		s.result = result.Clone()
		score := result.UserScore
		s.quiz.UserScore = &score
		completed := timex.NewTime(s.now())
		if result.CompletedAt != nil {
			completed = *result.CompletedAt
		}
		s.quiz.CompletedAt = &completed
		s.status = models.QuizSubmitted
	}
	s.mu.Unlock()

	s.log.Info(ctx, "quiz submitted", "quiz_id", quizID, "answered", len(answers), "score", result.UserScore, "total", result.TotalScore)

	s.FetchHistory(ctx)
	return result.Clone(), nil
}

// FetchHistory refreshes the list of past quizzes. Failures are logged and
// yield an empty list.
func (s *quizService) FetchHistory(ctx context.Context) []models.Quiz {
	history, err := s.client.QuizHistory(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to fetch quiz history", "error", err)
		return []models.Quiz{}
	}
	if history == nil {
		history = []models.Quiz{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = history
	return slices.Clone(history)
}

// resetLocked starts a new generation. A submission still in flight for the
// old quiz no longer blocks or updates the new one.
func (s *quizService) resetLocked() {
	s.generation++
	s.submitting = false
	s.quiz = nil
	s.result = nil
	s.answers.Reset()
	s.status = models.QuizIdle
	s.lastErr = ""
}

func (s *quizService) ClearQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *quizService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.history = nil
}

// CurrentQuiz returns a copy of the current quiz. Correct answers are blank
// until the quiz is submitted.
func (s *quizService) CurrentQuiz() *models.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Clone(s.status != models.QuizSubmitted)
}

func (s *quizService) Questions() []models.QuestionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return nil
	}
	views := make([]models.QuestionView, 0, len(s.quiz.Questions))
	for _, q := range s.quiz.Questions {
		views = append(views, models.QuestionView{
			QuestionID: q.QuestionID,
			Question:   q.Question,
			Options:    slices.Clone(q.Options),
		})
	}
	return views
}

func (s *quizService) Result() *models.QuizResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result.Clone()
}

func (s *quizService) History() []models.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

func (s *quizService) Status() models.QuizStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *quizService) HasActiveQuiz() bool {
	return s.Status() == models.QuizInProgress
}

func (s *quizService) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result != nil || (s.quiz != nil && s.quiz.CompletedAt != nil)
}

func (s *quizService) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return 0
	}
	return len(s.quiz.Questions)
}

func (s *quizService) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Len()
}

// AllQuestionsAnswered is false when no quiz is in progress.
func (s *quizService) AllQuestionsAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil || s.status != models.QuizInProgress {
		return false
	}
	return s.answers.Len() == len(s.quiz.Questions)
}

func (s *quizService) HistoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *quizService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *quizService) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *quizService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
