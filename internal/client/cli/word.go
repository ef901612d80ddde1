package cli

import (
	"context"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

var headwordStyle = lipgloss.NewStyle().Bold(true)

// Word looks up the joined arguments with the current language pair.
func (a *App) Word(ctx context.Context, args []string) error {
	w, err := a.wordService.QueryWord(ctx, strings.Join(args, " "), "", "")
	if err != nil {
		a.report(err)
		return err
	}

	head := headwordStyle.Render(w.Word)
	if w.Pronunciation != "" {
		head += " " + hintStyle.Render(w.Pronunciation)
	}
	fmt.Fprintln(a.out, head)
	fmt.Fprintf(a.out, "  %s -> %s: %s\n", w.SourceLang, w.TargetLang, w.Translation)
	if w.Definition != "" {
		fmt.Fprintf(a.out, "  definition: %s\n", w.Definition)
	}
	for _, ex := range w.ExampleList() {
		fmt.Fprintf(a.out, "  - %s\n", ex.Sentence)
		if ex.Translation != "" {
			fmt.Fprintf(a.out, "    %s\n", ex.Translation)
		}
	}
	return nil
}

// Words prints the lookup history, newest first.
func (a *App) Words(ctx context.Context) error {
	history := a.wordService.FetchHistory(ctx)
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No words looked up yet")
		return nil
	}
	for _, h := range history {
		fmt.Fprintf(a.out, "  %-20s %s->%s  %-20s %s\n",
			h.Word, h.SourceLang, h.TargetLang, h.Translation, displayTime(h.QueryTime.Time))
	}
	return nil
}

// Langs shows the language pair used by 'word', or sets it.
func (a *App) Langs(_ context.Context, args []string) error {
	switch len(args) {
	case 0:
	case 2:
		a.wordService.SetSourceLang(args[0])
		a.wordService.SetTargetLang(args[1])
	default:
		fmt.Fprintln(a.out, "Usage: langs [<source> <target>]")
		return nil
	}
	fmt.Fprintf(a.out, "Looking up words from %s to %s\n", a.wordService.SourceLang(), a.wordService.TargetLang())
	return nil
}
