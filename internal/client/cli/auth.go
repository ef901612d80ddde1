package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/common"
)

// report prints err unless the transport already raised a notice for it.
func (a *App) report(err error) {
	var ce *client.Error
	if err == nil || errors.As(err, &ce) {
		return
	}
	fmt.Fprintln(a.out, errorBadge.Render("[error]"), err)
}

// Register prompts for a username, email and password and creates the
// account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	userName, err := GetRequiredText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Register(ctx, userName, email, password); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Account created, you can now login")
	return nil
}

// Login prompts for credentials. On success the REPL moves to the home
// route and the catalog data is loaded.
func (a *App) Login(ctx context.Context) error {
	userName, err := GetRequiredText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "username", userName, "error", err)
		a.report(err)
		return err
	}

	a.setRoute(RouteHome)
	a.refresh(ctx)
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Username)
	return nil
}

// Logout signs out remotely when possible and always drops local state.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.dialogueService.ClearAll()
	a.wordService.ClearAll()
	a.quizService.ClearAll()
	a.recordsService.ClearAll()
	a.setRoute(RouteLogin)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", user.Username, user.ID)
	if user.Email != "" {
		fmt.Fprintf(a.out, "  email:  %s\n", user.Email)
	}
	if user.CreatedAt != nil && !user.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "  joined: %s\n", displayTime(user.CreatedAt.Time))
	}
	return nil
}
