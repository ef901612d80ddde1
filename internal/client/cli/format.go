package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func displayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive number, got %q", s)
	}
	return n, nil
}

// optionLetter returns "a" for 0, "b" for 1 and so on.
func optionLetter(i int) string {
	return string(rune('a' + i))
}

// resolveOption maps a single option letter onto the option text. Anything
// else is taken as the literal answer.
func resolveOption(options []string, input string) string {
	if len(input) == 1 {
		i := int(strings.ToLower(input)[0]) - 'a'
		if i >= 0 && i < len(options) {
			return options[i]
		}
	}
	return input
}
