package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
)

func (a *App) printPage() {
	recs := a.recordsService.Records()
	st := a.recordsService.PageState()
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No records")
	}
	for _, r := range recs {
		fmt.Fprintf(a.out, "  %-16s %-11s #%d\n", displayTime(r.ActivityTime.Time), r.ActivityType.Label(), r.ActivityID)
	}
	footer := fmt.Sprintf("Page %d/%d, %d records", st.Page, max(st.TotalPages, 1), st.Total)
	if st.Filter != "" {
		footer += ", filter " + st.Filter.Label()
	}
	if a.recordsService.HasMorePages() {
		footer += fmt.Sprintf(", 'page %d' for more", st.Page+1)
	}
	fmt.Fprintln(a.out, hintStyle.Render(footer))
}

// Records reloads the current page with the remembered filter and size.
func (a *App) Records(ctx context.Context) error {
	if _, err := a.recordsService.FetchRecords(ctx, nil); err != nil {
		a.report(err)
		return err
	}
	a.printPage()
	return nil
}

// Filter sets the activity filter; no argument clears it.
func (a *App) Filter(ctx context.Context, args []string) error {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	}
	activity, err := models.ParseActivityType(raw)
	if err != nil {
		a.report(err)
		return err
	}
	if err := a.recordsService.SetFilter(ctx, activity); err != nil {
		a.report(err)
		return err
	}
	a.printPage()
	return nil
}

func (a *App) Page(ctx context.Context, args []string) error {
	n, err := parsePositive(args[0])
	if err != nil {
		a.report(err)
		return err
	}
	st := a.recordsService.PageState()
	if n > st.TotalPages {
		fmt.Fprintf(a.out, "No page %d (have %d), run 'records' to refresh\n", n, st.TotalPages)
		return nil
	}
	if err := a.recordsService.GoToPage(ctx, n); err != nil {
		a.report(err)
		return err
	}
	a.printPage()
	return nil
}

func (a *App) PageSize(ctx context.Context, args []string) error {
	n, err := parsePositive(args[0])
	if err != nil {
		a.report(err)
		return err
	}
	if err := a.recordsService.ChangePageSize(ctx, n); err != nil {
		a.report(err)
		return err
	}
	a.printPage()
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s := a.recordsService.FetchStatistics(ctx)
	if s == nil {
		if s = a.recordsService.Statistics(); s == nil {
			fmt.Fprintln(a.out, "Statistics are not available right now")
			return nil
		}
		fmt.Fprintln(a.out, hintStyle.Render("Showing last known statistics"))
	}
	fmt.Fprintf(a.out, "Word queries:       %d\n", s.TotalWordQueries)
	fmt.Fprintf(a.out, "Dialogue sessions:  %d\n", s.TotalDialogueSessions)
	fmt.Fprintf(a.out, "Quizzes:            %d (avg score %.1f)\n", s.TotalQuizzes, s.AverageQuizScore)
	fmt.Fprintf(a.out, "Total activities:   %d\n", s.TotalActivities)
	fmt.Fprintf(a.out, "Last 7 / 30 days:   %d / %d\n", s.ActivitiesLast7Days, s.ActivitiesLast30Days)
	if s.FirstActivityDate != nil {
		fmt.Fprintf(a.out, "First activity:     %s\n", displayTime(s.FirstActivityDate.Time))
	}
	if s.LastActivityDate != nil {
		fmt.Fprintf(a.out, "Last activity:      %s\n", displayTime(s.LastActivityDate.Time))
	}
	return nil
}
