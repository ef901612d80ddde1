package fakeapi

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

const pointsPerQuestion = 10

type generateQuizRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
}

// generateQuiz builds questions whose correct answer is always the first
// option, which keeps scoring predictable in tests.
func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if !decode(r, &req) || !req.Difficulty.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid difficulty")
		return
	}
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	quiz := &models.Quiz{
		ID:         s.nextID,
		UserID:     owner,
		Difficulty: req.Difficulty,
		TotalScore: s.questionCount * pointsPerQuestion,
		CreatedAt:  timex.NewTime(s.now()),
	}
	for i := 1; i <= s.questionCount; i++ {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			QuestionID:    int64(i),
			Question:      fmt.Sprintf("%s question %d", req.Difficulty.Label(), i),
			Options:       []string{fmt.Sprintf("right %d", i), fmt.Sprintf("wrong %d", i)},
			CorrectAnswer: fmt.Sprintf("right %d", i),
		})
	}
	s.quizzes[quiz.ID] = quiz
	writeOK(w, quiz)
}

type submitQuizRequest struct {
	Answers []models.QuizAnswer `json:"answers"`
}

func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}
	id, ok := pathID(r, "id")
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	quiz := s.quizzes[id]
	if !ok || quiz == nil || quiz.UserID != owner {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	given := make(map[int64]string, len(req.Answers))
	for _, a := range req.Answers {
		given[a.QuestionID] = a.Answer
	}

	result := models.QuizResult{QuizID: quiz.ID, TotalScore: quiz.TotalScore, Difficulty: quiz.Difficulty}
	for i, q := range quiz.Questions {
		answer := given[q.QuestionID]
		correct := answer != "" && answer == q.CorrectAnswer
		if correct {
			result.UserScore += pointsPerQuestion
		}
		quiz.Questions[i].UserAnswer = answer
		result.AnswerResults = append(result.AnswerResults, models.AnswerResult{
			QuestionID:    q.QuestionID,
			Question:      q.Question,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
		})
	}

	completed := timex.NewTime(s.now())
	score := result.UserScore
	quiz.UserScore = &score
	quiz.CompletedAt = &completed
	result.CompletedAt = &completed

	s.addRecordLocked(owner, models.ActivityQuiz, quiz.ID)
	writeOK(w, result)
}

// quizHistory lists the caller's completed quizzes, newest first.
func (s *Server) quizHistory(w http.ResponseWriter, r *http.Request) {
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	history := []models.Quiz{}
	for _, q := range s.quizzes {
		if q.UserID == owner && q.CompletedAt != nil {
			history = append(history, *q.Clone(false))
		}
	}
	slices.SortFunc(history, func(a, b models.Quiz) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	writeOK(w, history)
}
