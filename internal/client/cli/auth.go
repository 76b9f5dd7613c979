package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates an account.
// A successful registration also starts a session.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, userName, string(password)); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Registered and logged in as", a.api.Username())
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, userName, string(password)); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Logged in as", a.api.Username())
	return nil
}

// Logout flushes any pending autosave, ends the session and forgets the
// current document.
func (a *App) Logout(ctx context.Context) error {
	a.saver.Flush()
	if err := a.api.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout", "error", err.Error())
	}
	a.mu.Lock()
	a.docName = ""
	a.mu.Unlock()
	printlnFn("Logged out")
	return nil
}
