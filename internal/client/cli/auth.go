package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
)

func (a *App) Login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		username, err = GetSimpleText(a.reader, "Enter username:", a.out)
		if err != nil {
			return err
		}
	}
	if username == "" {
		return errors.New("username is required")
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrValidation) {
			return errors.New("invalid username or password")
		}
		return err
	}

	a.printf("Logged in as %s\n", username)
	a.Navigate(ctx, a.config.SuccessPath)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	a.draft, a.flow, a.partial, a.cache = nil, nil, nil, nil
	a.printf("Logged out\n")
	a.Navigate(ctx, a.config.LoginPath)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		a.printf("Not logged in\n")
		return nil
	}

	if exp, ok := a.auth.AccessTokenExpiry(ctx); ok {
		left := exp.Sub(a.now()).Round(time.Second)
		if left > 0 {
			a.printf("Logged in, access token expires %s (in %s)\n", exp.Local().Format("2006-01-02 15:04:05"), left)
		} else {
			a.printf("Logged in, access token expired %s; it is refreshed on the next request\n", exp.Local().Format("2006-01-02 15:04:05"))
		}
	} else {
		a.printf("Logged in\n")
	}

	id, err := a.session.CurrentApplicationID(ctx)
	if err != nil {
		return err
	}
	if id > 0 {
		a.printf("Current application: #%d\n", id)
	}
	return nil
}
