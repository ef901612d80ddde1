package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/client/services"
)

func (a *App) printScenarios(title string, list []models.Scenario) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(a.out, title)
	for _, sc := range list {
		fmt.Fprintf(a.out, "  %3d  %-24s %s\n", sc.ID, sc.Name, hintStyle.Render(sc.Category))
		if sc.Description != "" {
			fmt.Fprintf(a.out, "       %s\n", sc.Description)
		}
	}
}

// Scenarios reloads the catalog and prints presets before custom ones.
func (a *App) Scenarios(ctx context.Context) error {
	if _, err := a.dialogueService.FetchScenarios(ctx); err != nil {
		a.report(err)
		return err
	}
	preset, custom := a.dialogueService.PresetScenarios(), a.dialogueService.CustomScenarios()
	if len(preset)+len(custom) == 0 {
		fmt.Fprintln(a.out, "No scenarios available")
		return nil
	}
	a.printScenarios("Preset scenarios:", preset)
	a.printScenarios("Your scenarios:", custom)
	return nil
}

func (a *App) NewScenario(ctx context.Context) error {
	name, err := GetRequiredText(a.reader, "Scenario name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}

	sc, err := a.dialogueService.CreateScenario(ctx, models.CreateScenarioRequest{
		Name:        name,
		Description: description,
		Category:    category,
	})
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Scenario %d created\n", sc.ID)
	return nil
}

func (a *App) printSession(s *models.DialogueSession) {
	name := s.ScenarioName
	if name == "" {
		if sc, ok := a.dialogueService.ScenarioByID(s.ScenarioID); ok {
			name = sc.Name
		}
	}
	fmt.Fprintf(a.out, "Session %d: %s\n", s.ID, name)
	for _, m := range s.Messages {
		a.printMessage(m)
	}
}

func (a *App) printMessage(m models.DialogueMessage) {
	who := "you"
	if m.Role == models.RoleAssistant {
		who = "tutor"
	}
	fmt.Fprintf(a.out, "%s %s: %s\n", hintStyle.Render(displayTime(m.Timestamp.Time)), who, m.Content)
}

func (a *App) Start(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		a.report(err)
		return err
	}
	s, err := a.dialogueService.StartSession(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	a.printSession(s)
	return nil
}

func (a *App) Resume(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		a.report(err)
		return err
	}
	s, err := a.dialogueService.ResumeSession(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	a.printSession(s)
	if a.dialogueService.Status() == models.SessionEnded {
		fmt.Fprintln(a.out, hintStyle.Render("This session has ended"))
	}
	return nil
}

// Say sends the rest of the line as one message and prints the reply.
func (a *App) Say(ctx context.Context, args []string) error {
	reply, err := a.dialogueService.SendMessage(ctx, strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			fmt.Fprintln(a.out, "No active session, use 'start <scenario id>' first")
			return err
		}
		a.report(err)
		return err
	}
	a.printMessage(*reply)
	return nil
}

func (a *App) End(ctx context.Context) error {
	if !a.dialogueService.HasActiveSession() {
		fmt.Fprintln(a.out, "No active session")
		return nil
	}
	if err := a.dialogueService.EndCurrentSession(ctx); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Session ended after %d messages\n", a.dialogueService.MessageCount())
	return nil
}
