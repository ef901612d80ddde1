package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Label is the human-readable name; unknown values are returned as is.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	}
	return string(d)
}

// Tag maps the difficulty onto a display severity.
func (d Difficulty) Tag() string {
	switch d {
	case DifficultyEasy:
		return "success"
	case DifficultyMedium:
		return "warning"
	case DifficultyHard:
		return "danger"
	}
	return "info"
}

type QuizQuestion struct {
	QuestionID    int64    `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	UserAnswer    string   `json:"userAnswer,omitempty"`
}

// QuestionView is a question without its correct answer.
type QuestionView struct {
	QuestionID int64
	Question   string
	Options    []string
}

type Quiz struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`
	Difficulty  Difficulty     `json:"difficulty"`
	TargetLang  string         `json:"targetLang,omitempty"`
	Questions   []QuizQuestion `json:"questions"`
	TotalScore  int            `json:"totalScore"`
	UserScore   *int           `json:"userScore,omitempty"`
	CreatedAt   timex.Time     `json:"createdAt"`
	CompletedAt *timex.Time    `json:"completedAt,omitempty"`
}

// Clone returns a deep copy of q. With redact set the correct answers are
// blanked.
func (q *Quiz) Clone(redact bool) *Quiz {
	if q == nil {
		return nil
	}
	c := *q
	c.Questions = make([]QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = slices.Clone(question.Options)
		if redact {
			question.CorrectAnswer = ""
		}
		c.Questions[i] = question
	}
	if q.UserScore != nil {
		score := *q.UserScore
		c.UserScore = &score
	}
	if q.CompletedAt != nil {
		done := *q.CompletedAt
		c.CompletedAt = &done
	}
	return &c
}

// HasQuestion reports whether id belongs to one of the quiz questions.
func (q *Quiz) HasQuestion(id int64) bool {
	for _, question := range q.Questions {
		if question.QuestionID == id {
			return true
		}
	}
	return false
}

type QuizAnswer struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

type AnswerResult struct {
	QuestionID    int64  `json:"questionId"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// QuizResult is produced by the server on submission only.
type QuizResult struct {
	QuizID        int64          `json:"quizId"`
	UserScore     int            `json:"userScore"`
	TotalScore    int            `json:"totalScore"`
	Difficulty    Difficulty     `json:"difficulty,omitempty"`
	AnswerResults []AnswerResult `json:"answerResults"`
	CompletedAt   *timex.Time    `json:"completedAt,omitempty"`
}

func (r *QuizResult) Clone() *QuizResult {
	if r == nil {
		return nil
	}
	c := *r
	c.AnswerResults = slices.Clone(r.AnswerResults)
	if r.CompletedAt != nil {
		done := *r.CompletedAt
		c.CompletedAt = &done
	}
	return &c
}

type QuizStatus int

const (
	QuizIdle QuizStatus = iota
	QuizInProgress
	QuizSubmitted
)

func (s QuizStatus) String() string {
	switch s {
	case QuizInProgress:
		return "in progress"
	case QuizSubmitted:
		return "submitted"
	default:
		return "idle"
	}
}

// AnswerSheet accumulates answers keyed by question ID. Setting an answer
// for a question that already has one overwrites it. The zero value is
// ready to use.
type AnswerSheet struct {
	answers map[int64]string
}

func (s *AnswerSheet) Set(questionID int64, answer string) {
	if s.answers == nil {
		s.answers = make(map[int64]string)
	}
	s.answers[questionID] = answer
}

func (s *AnswerSheet) Get(questionID int64) (string, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

func (s *AnswerSheet) Len() int {
	return len(s.answers)
}

func (s *AnswerSheet) Reset() {
	s.answers = nil
}

// Snapshot copies the sheet into a submission payload ordered by question ID.
func (s *AnswerSheet) Snapshot() []QuizAnswer {
	out := make([]QuizAnswer, 0, len(s.answers))
	for id, a := range s.answers {
		out = append(out, QuizAnswer{QuestionID: id, Answer: a})
	}
	slices.SortFunc(out, func(a, b QuizAnswer) int {
		switch {
		case a.QuestionID < b.QuestionID:
			return -1
		case a.QuestionID > b.QuestionID:
			return 1
		}
		return 0
	})
	return out
}
