package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/qrregistry/internal/client/client"
	"github.com/dmitrijs2005/qrregistry/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts the user for an email and password and creates a new
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered %s (role: %s)\n", u.Email, u.Role)
	return nil
}

// Login prompts for credentials and authenticates against the server.
// When the server cannot be reached the app switches to offline mode.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return a.report(err)
	}

	a.userName = email
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the in-memory session.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// report prints a user-facing description of err and returns it unchanged.
func (a *App) report(err error) error {
	var msg string
	switch {
	case errors.Is(err, client.ErrUnavailable):
		msg = "Server unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		msg = "Not logged in or session expired, please login"
	case errors.Is(err, client.ErrForbidden):
		msg = "Admin role required"
	case errors.Is(err, client.ErrNotFound):
		msg = "Record not found"
	case errors.Is(err, client.ErrConflict):
		msg = "Conflict: " + err.Error()
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintln(a.out, msg)
	return err
}
