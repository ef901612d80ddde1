package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/client/services"
)

var (
	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E")).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

func difficultyStyle(d models.Difficulty) lipgloss.Style {
	switch d.Tag() {
	case "success":
		return correctStyle
	case "warning":
		return warningBadge
	case "danger":
		return incorrectStyle
	}
	return infoBadge
}

func (a *App) Quiz(ctx context.Context, args []string) error {
	d, err := models.ParseDifficulty(args[0])
	if err != nil {
		a.report(err)
		return err
	}
	q, err := a.quizService.GenerateQuiz(ctx, d)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Quiz %d (%s), %d questions\n",
		q.ID, difficultyStyle(q.Difficulty).Render(q.Difficulty.Label()), a.quizService.QuestionCount())
	return a.Questions(ctx)
}

// Questions prints the current quiz with the answers given so far.
func (a *App) Questions(_ context.Context) error {
	if !a.quizService.HasActiveQuiz() {
		fmt.Fprintln(a.out, "No active quiz, use 'quiz <difficulty>' first")
		return services.ErrNoActiveQuiz
	}
	for i, q := range a.quizService.Questions() {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, q.Question)
		answer, answered := a.quizService.GetAnswer(q.QuestionID)
		for j, opt := range q.Options {
			mark := " "
			if answered && answer == opt {
				mark = "*"
			}
			fmt.Fprintf(a.out, "  %s %s) %s\n", mark, optionLetter(j), opt)
		}
	}
	fmt.Fprintf(a.out, "Answered %d of %d\n", a.quizService.AnsweredCount(), a.quizService.QuestionCount())
	return nil
}

// Answer records the answer for the n-th question. A single letter picks an
// option; anything else is stored as typed.
func (a *App) Answer(_ context.Context, args []string) error {
	if a.quizService.IsCompleted() {
		fmt.Fprintln(a.out, "This quiz has already been submitted")
		return nil
	}
	questions := a.quizService.Questions()
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "No active quiz, use 'quiz <difficulty>' first")
		return services.ErrNoActiveQuiz
	}
	n, err := parsePositive(args[0])
	if err != nil || n > len(questions) {
		err = fmt.Errorf("question number must be between 1 and %d", len(questions))
		a.report(err)
		return err
	}
	q := questions[n-1]
	answer := resolveOption(q.Options, strings.Join(args[1:], " "))
	if err := a.quizService.SetAnswer(q.QuestionID, answer); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Answered %d of %d\n", a.quizService.AnsweredCount(), a.quizService.QuestionCount())
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	if a.quizService.HasActiveQuiz() && !a.quizService.AllQuestionsAnswered() {
		fmt.Fprintln(a.out, hintStyle.Render(fmt.Sprintf("Submitting with %d of %d questions answered",
			a.quizService.AnsweredCount(), a.quizService.QuestionCount())))
	}
	res, err := a.quizService.SubmitQuiz(ctx)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveQuiz):
			fmt.Fprintln(a.out, "No active quiz, use 'quiz <difficulty>' first")
		case errors.Is(err, services.ErrSubmitInProgress):
			fmt.Fprintln(a.out, "Submission already in progress")
		default:
			a.report(err)
		}
		return err
	}
	a.printResult(res)
	return nil
}

func (a *App) printResult(res *models.QuizResult) {
	fmt.Fprintf(a.out, "Score: %d / %d\n", res.UserScore, res.TotalScore)
	for i, r := range res.AnswerResults {
		mark := correctStyle.Render("correct")
		if !r.IsCorrect {
			mark = incorrectStyle.Render("wrong")
		}
		fmt.Fprintf(a.out, "%d. %s [%s]\n", i+1, r.Question, mark)
		if !r.IsCorrect {
			fmt.Fprintf(a.out, "   your answer: %s, correct: %s\n", r.UserAnswer, r.CorrectAnswer)
		}
	}
}

func (a *App) History(ctx context.Context) error {
	history := a.quizService.FetchHistory(ctx)
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No quizzes yet")
		return nil
	}
	for _, q := range history {
		score := "-"
		if q.UserScore != nil {
			score = fmt.Sprintf("%d/%d", *q.UserScore, q.TotalScore)
		}
		done := "-"
		if q.CompletedAt != nil {
			done = displayTime(q.CompletedAt.Time)
		}
		fmt.Fprintf(a.out, "  %4d  %-7s %7s  %s\n", q.ID, q.Difficulty.Label(), score, done)
	}
	return nil
}
