package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

// Login prompts for credentials, authenticates against the server and loads
// the library data. The password buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	st, err := a.session.Authenticate(ctx, username, string(password))
	if err != nil {
		return a.fail(ctx, "login", err)
	}

	a.page = models.PageDashboard
	a.notice("Logged in as %s (%s)", st.Username, st.Role)
	a.load(ctx)
	return nil
}

// Logout ends the session and forgets every cached collection.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if err := a.session.End(ctx); err != nil {
		return a.fail(ctx, "logout", err)
	}
	a.store.Reset()
	a.page = models.PageDashboard
	a.notice("Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	st := a.session.Current()
	fmt.Fprintf(a.out, "User: %s\nRole: %s\n", st.Username, st.Role)
	if exp := a.session.TokenExpiry(ctx); !exp.IsZero() {
		fmt.Fprintf(a.out, "Token expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	if st.Reader != nil {
		fmt.Fprintf(a.out, "Reader: #%d %s (%s)\n", st.Reader.ID, st.Reader.Name, st.Reader.ReaderType.Label())
	}
	return nil
}
