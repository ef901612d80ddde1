package services

import "errors"

var (
	ErrNoActiveSession  = errors.New("no active session")
	ErrNoActiveQuiz     = errors.New("no active quiz")
	ErrUnknownQuestion  = errors.New("question is not part of the current quiz")
	ErrSubmitInProgress = errors.New("quiz submission already in progress")
)

// errorText is the message stored for display after a failed call.
func errorText(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
