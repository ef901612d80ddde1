package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hardQuiz() *models.Quiz {
	return &models.Quiz{
		ID:         11,
		Difficulty: models.DifficultyHard,
		TotalScore: 30,
		Questions: []models.QuizQuestion{
			{QuestionID: 1, Question: "ephemeral", Options: []string{"lasting", "fleeting"}, CorrectAnswer: "fleeting"},
			{QuestionID: 2, Question: "ubiquitous", Options: []string{"rare", "everywhere"}, CorrectAnswer: "everywhere"},
			{QuestionID: 3, Question: "laconic", Options: []string{"terse", "verbose"}, CorrectAnswer: "terse"},
		},
	}
}

func newQuiz(fc *fakeClient) *quizService {
	s := NewQuizService(fc, logging.Nop()).(*quizService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func generatedQuiz(t *testing.T, fc *fakeClient) *quizService {
	t.Helper()
	fc.GenerateQuizFn = func(ctx context.Context, d models.Difficulty) (*models.Quiz, error) {
		return hardQuiz(), nil
	}
	s := newQuiz(fc)
	_, err := s.GenerateQuiz(context.Background(), models.DifficultyHard)
	require.NoError(t, err)
	return s
}

func TestQuiz_HardQuizPartialSubmission(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	ctx := context.Background()

	require.NoError(t, s.SetAnswer(1, "fleeting"))
	require.NoError(t, s.SetAnswer(2, "everywhere"))
	assert.Equal(t, 2, s.AnsweredCount())
	assert.False(t, s.AllQuestionsAnswered())

	var submitted []models.QuizAnswer
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		require.Equal(t, int64(11), quizID)
		submitted = answers
		return &models.QuizResult{QuizID: quizID, UserScore: 20, TotalScore: 30, AnswerResults: []models.AnswerResult{
			{QuestionID: 1, IsCorrect: true},
			{QuestionID: 2, IsCorrect: true},
		}}, nil
	}
	fc.QuizHistoryFn = func(ctx context.Context) ([]models.Quiz, error) {
		return nil, errors.New("history unavailable")
	}

	result, err := s.SubmitQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, result.UserScore)
	assert.Equal(t, []models.QuizAnswer{{QuestionID: 1, Answer: "fleeting"}, {QuestionID: 2, Answer: "everywhere"}}, submitted)

	quiz := s.CurrentQuiz()
	require.NotNil(t, quiz.UserScore)
	assert.Equal(t, 20, *quiz.UserScore)
	require.NotNil(t, quiz.CompletedAt)
	assert.Equal(t, fixedNow, quiz.CompletedAt.Time)

	assert.Equal(t, models.QuizSubmitted, s.Status())
	assert.True(t, s.IsCompleted())
	assert.Equal(t, 1, fc.count("QuizHistory"))
	assert.Empty(t, s.LastError())
}

func TestQuiz_ResultCompletionTimeWins(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	done := timex.NewTime(fixedNow.Add(-time.Minute))
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		return &models.QuizResult{QuizID: quizID, CompletedAt: &done}, nil
	}
	fc.QuizHistoryFn = func(ctx context.Context) ([]models.Quiz, error) {
		return []models.Quiz{{ID: 11}}, nil
	}

	_, err := s.SubmitQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, done.Time, s.CurrentQuiz().CompletedAt.Time)
	assert.Equal(t, 1, s.HistoryCount())
}

func TestQuiz_GenerateResetsAnswers(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	require.NoError(t, s.SetAnswer(1, "lasting"))

	_, err := s.GenerateQuiz(context.Background(), models.DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, 0, s.AnsweredCount())
	_, ok := s.GetAnswer(1)
	assert.False(t, ok)
	assert.Nil(t, s.Result())
	assert.Equal(t, models.QuizInProgress, s.Status())
}

func TestQuiz_GenerateFailureLeavesIdle(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	fc.GenerateQuizFn = func(ctx context.Context, d models.Difficulty) (*models.Quiz, error) {
		return nil, businessErr(3, "generator busy")
	}

	_, err := s.GenerateQuiz(context.Background(), models.DifficultyMedium)
	require.Error(t, err)
	assert.Equal(t, "generator busy", s.LastError())
	assert.Equal(t, models.QuizIdle, s.Status())
	assert.Nil(t, s.CurrentQuiz())
	assert.Equal(t, 0, s.QuestionCount())
}

func TestQuiz_SetAnswerLastWriteWins(t *testing.T) {
	s := generatedQuiz(t, &fakeClient{})

	require.NoError(t, s.SetAnswer(3, "verbose"))
	require.NoError(t, s.SetAnswer(3, "terse"))

	a, ok := s.GetAnswer(3)
	require.True(t, ok)
	assert.Equal(t, "terse", a)
	assert.Equal(t, 1, s.AnsweredCount())
}

func TestQuiz_SetAnswerGuards(t *testing.T) {
	s := newQuiz(&fakeClient{})
	assert.ErrorIs(t, s.SetAnswer(1, "x"), ErrNoActiveQuiz)

	s = generatedQuiz(t, &fakeClient{})
	assert.ErrorIs(t, s.SetAnswer(99, "x"), ErrUnknownQuestion)
}

func TestQuiz_AllQuestionsAnswered(t *testing.T) {
	s := newQuiz(&fakeClient{})
	assert.False(t, s.AllQuestionsAnswered())

	s = generatedQuiz(t, &fakeClient{})
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, s.SetAnswer(id, "a"))
	}
	assert.True(t, s.AllQuestionsAnswered())
}

func TestQuiz_SubmitWithoutQuiz(t *testing.T) {
	fc := &fakeClient{}
	s := newQuiz(fc)

	_, err := s.SubmitQuiz(context.Background())
	require.ErrorIs(t, err, ErrNoActiveQuiz)
	assert.Equal(t, "No active quiz", s.LastError())
	assert.Equal(t, 0, fc.count("SubmitQuiz"))
}

func TestQuiz_SubmitFailureKeepsAnswers(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	require.NoError(t, s.SetAnswer(1, "fleeting"))
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		return nil, errors.New("Server error")
	}

	_, err := s.SubmitQuiz(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Server error", s.LastError())
	assert.Equal(t, models.QuizInProgress, s.Status())
	assert.Equal(t, 1, s.AnsweredCount())
	assert.Nil(t, s.CurrentQuiz().CompletedAt)
	assert.Equal(t, 0, fc.count("QuizHistory"))
	assert.False(t, s.Submitting())
}

func TestQuiz_ConcurrentSubmitRejected(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)

	entered := make(chan struct{})
	release := make(chan struct{})
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		close(entered)
		<-release
		return &models.QuizResult{QuizID: quizID}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitQuiz(context.Background())
		done <- err
	}()
	<-entered

	_, err := s.SubmitQuiz(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.True(t, s.Submitting())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fc.count("SubmitQuiz"))
}

func TestQuiz_NewQuizNotBlockedByStaleSubmit(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)

	entered := make(chan struct{})
	release := make(chan struct{})
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		if quizID == 11 {
			close(entered)
			<-release
		}
		return &models.QuizResult{QuizID: quizID, UserScore: int(quizID)}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitQuiz(context.Background())
		done <- err
	}()
	<-entered

	fc.GenerateQuizFn = func(ctx context.Context, d models.Difficulty) (*models.Quiz, error) {
		q := hardQuiz()
		q.ID = 12
		return q, nil
	}
	_, err := s.GenerateQuiz(context.Background(), models.DifficultyHard)
	require.NoError(t, err)
	assert.False(t, s.Submitting())

	res, err := s.SubmitQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.QuizID)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, int64(12), s.Result().QuizID, "the stale result must not replace the current one")
	assert.True(t, s.IsCompleted())
	assert.False(t, s.Submitting())
}

func TestQuiz_AnswersSetDuringSubmitAreNotSent(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)
	require.NoError(t, s.SetAnswer(1, "fleeting"))

	entered := make(chan struct{})
	release := make(chan struct{})
	var sent []models.QuizAnswer
	fc.SubmitQuizFn = func(ctx context.Context, quizID int64, answers []models.QuizAnswer) (*models.QuizResult, error) {
		sent = answers
		close(entered)
		<-release
		return &models.QuizResult{QuizID: quizID}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitQuiz(context.Background())
		done <- err
	}()
	<-entered
	require.NoError(t, s.SetAnswer(2, "everywhere"))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []models.QuizAnswer{{QuestionID: 1, Answer: "fleeting"}}, sent)
}

func TestQuiz_CorrectAnswersHiddenUntilSubmitted(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)

	for _, q := range s.CurrentQuiz().Questions {
		assert.Empty(t, q.CorrectAnswer)
	}
	views := s.Questions()
	require.Len(t, views, 3)
	assert.Equal(t, "ephemeral", views[0].Question)

	_, err := s.SubmitQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fleeting", s.CurrentQuiz().Questions[0].CorrectAnswer)
}

func TestQuiz_ResubmitIsPassedThrough(t *testing.T) {
	fc := &fakeClient{}
	s := generatedQuiz(t, fc)

	_, err := s.SubmitQuiz(context.Background())
	require.NoError(t, err)
	_, err = s.SubmitQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fc.count("SubmitQuiz"))
}

func TestQuiz_FetchHistorySwallowsErrors(t *testing.T) {
	fc := &fakeClient{QuizHistoryFn: func(ctx context.Context) ([]models.Quiz, error) {
		return nil, errors.New("Network error")
	}}
	s := newQuiz(fc)

	got := s.FetchHistory(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, s.LastError())
}

func TestQuiz_ClearQuizKeepsHistory(t *testing.T) {
	fc := &fakeClient{QuizHistoryFn: func(ctx context.Context) ([]models.Quiz, error) {
		return []models.Quiz{{ID: 1}, {ID: 2}}, nil
	}}
	s := generatedQuiz(t, fc)
	s.FetchHistory(context.Background())
	require.NoError(t, s.SetAnswer(1, "x"))

	s.ClearQuiz()
	assert.Equal(t, models.QuizIdle, s.Status())
	assert.Equal(t, 0, s.AnsweredCount())
	assert.Equal(t, 2, s.HistoryCount())

	s.ClearAll()
	assert.Equal(t, 0, s.HistoryCount())
}
