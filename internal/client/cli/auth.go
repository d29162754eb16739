package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtracker/internal/client/session"
	"github.com/dmitrijs2005/gophtracker/internal/client/views"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

// Register prompts for the account fields and creates the account. On
// success the login view is shown; the user still has to log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	rc := views.NewRegisterController(a.store, a.router, a.logger)
	defer rc.Close()
	rc.SetValues(views.RegisterForm{Email: email, Username: username, Password: string(password), FullName: fullName})

	user, err := rc.Submit(ctx)
	if err != nil {
		a.printFailure(err, rc.State())
		return err
	}

	printlnFn(fmt.Sprintf("Account %s created.", user.Username))
	a.settle(ctx)
	return nil
}

// Login prompts for credentials and opens the issue list on success.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn(fmt.Sprintf("Already logged in as %s. Use 'logout' first.", a.store.Current().Username()))
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	lc := views.NewLoginController(a.store, a.router, a.logger)
	defer lc.Close()
	lc.SetValues(views.LoginForm{Username: username, Password: string(password)})

	if err := lc.Submit(ctx); err != nil {
		a.printFailure(err, lc.State())
		return err
	}
	a.settle(ctx)
	return nil
}

// Logout ends the session locally and shows the login view.
func (a *App) Logout(ctx context.Context) error {
	err := a.store.Logout(ctx)
	if err != nil {
		printlnFn(renderError("Could not clear the stored session: " + err.Error()))
	}
	a.navigate(ctx, views.PathLogin)
	return err
}

// WhoAmI reloads the current user from the server and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.store.Refresh(ctx)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAuth):
			printlnFn("Your session has expired, please log in again.")
			a.navigate(ctx, views.PathLogin)
		default:
			printlnFn(renderError("Could not load your profile."))
		}
		return err
	}

	printlnFn(fmt.Sprintf("%s <%s> (id %s)", user.DisplayName(), user.Email, user.ID))
	if exp, ok := a.store.ExpiresAt(); ok {
		printlnFn(fmt.Sprintf("Session expires %s", exp.Local().Format(timeLayout)))
	}
	return nil
}

// printFailure shows field messages for a validation error and the
// controller's failure reason otherwise.
func (a *App) printFailure(err error, state views.State) {
	var ve *views.ValidationError
	if errors.As(err, &ve) {
		for _, msg := range sortedMessages(ve) {
			printlnFn(renderError(msg))
		}
		return
	}
	if state.IsFailed() {
		printlnFn(renderError(state.Reason()))
		return
	}
	a.logger.Debug(context.Background(), "command failed", "error", err)
}
