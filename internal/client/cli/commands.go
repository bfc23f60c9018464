package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

var errUnknownCommand = errors.New("unknown command")

// command is one console verb. page is the view it belongs to; commands
// without a page are open to every logged-in user.
type command struct {
	name  string
	page  models.Page
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commonCommands = []command{
	{"dashboard", models.PageDashboard, "dashboard", (*App).dashboard},
	{"refresh", "", "refresh [books|readers|borrows|categories]", (*App).refresh},
	{"whoami", "", "whoami", (*App).whoami},
}

var adminCommands = []command{
	{"books", models.PageBooks, "books [query]", (*App).listBooks},
	{"addbook", models.PageBooks, "addbook", (*App).addBook},
	{"editbook", models.PageBooks, "editbook <book>", (*App).editBook},
	{"deletebook", models.PageBooks, "deletebook <book>", (*App).deleteBook},

	{"items", models.PageItems, "items <book>", (*App).listItems},
	{"addcopy", models.PageItems, "addcopy <book>", (*App).addCopy},
	{"editcopy", models.PageItems, "editcopy <copy>", (*App).editCopy},
	{"deletecopy", models.PageItems, "deletecopy <copy>", (*App).deleteCopy},
	{"purchase", models.PageItems, "purchase <book> <quantity> [supplier]", (*App).purchase},
	{"discard", models.PageItems, "discard <book> <quantity>", (*App).discard},
	{"setstatus", models.PageItems, "setstatus <copy> <status>", (*App).setStatus},

	{"readers", models.PageReaders, "readers", (*App).listReaders},
	{"addreader", models.PageReaders, "addreader", (*App).addReader},
	{"editreader", models.PageReaders, "editreader <reader>", (*App).editReader},
	{"deletereader", models.PageReaders, "deletereader <reader>", (*App).deleteReader},

	{"borrows", models.PageBorrow, "borrows [borrowed|returned|overdue]", (*App).listBorrows},
	{"search", models.PageBorrow, "search <text> [from yyyy-mm-dd] [to yyyy-mm-dd]", (*App).search},
	{"borrow", models.PageBorrow, "borrow <book> <reader> [copy]", (*App).borrow},
	{"return", models.PageBorrow, "return <record>", (*App).returnBook},
	{"renew", models.PageBorrow, "renew <record>", (*App).renew},
	{"overdue", models.PageBorrow, "overdue", (*App).overdue},

	{"categories", models.PageCategories, "categories", (*App).listCategories},
	{"addcategory", models.PageCategories, "addcategory [name] [code]", (*App).addCategory},
	{"editcategory", models.PageCategories, "editcategory <category>", (*App).editCategory},
	{"deletecategory", models.PageCategories, "deletecategory <category>", (*App).deleteCategory},

	{"stats", models.PageStatistics, "stats", (*App).stats},
	{"stock", models.PageStatistics, "stock", (*App).stock},
	{"export", models.PageStatistics, "export", (*App).export},
}

var readerCommands = []command{
	{"mine", models.PageMyBorrows, "mine", (*App).myBorrows},
	{"return", models.PageMyBorrows, "return <record>", (*App).returnOwn},
	{"renew", models.PageMyBorrows, "renew <record>", (*App).renewOwn},
	{"browse", models.PageBrowseBooks, "browse [query] [category]", (*App).browse},
	{"borrow", models.PageBrowseBooks, "borrow <book>", (*App).borrowSelf},
}

func commandsFor(role models.Role) []command {
	own := adminCommands
	if role == models.RoleReader {
		own = readerCommands
	}
	return append(append([]command(nil), commonCommands...), own...)
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Dispatch runs name for the current role. A command that exists only for
// the other role is sent through the route guard, which lands on the
// dashboard.
func (a *App) Dispatch(ctx context.Context, name string, args []string) error {
	role := a.session.Current().Role

	cmd, ok := lookup(commandsFor(role), name)
	if !ok {
		other := models.RoleReader
		if role == models.RoleReader {
			other = models.RoleAdmin
		}
		if cmd, ok = lookup(commandsFor(other), name); !ok {
			return errUnknownCommand
		}
	}

	if cmd.page != "" {
		target := a.session.Resolve(cmd.page)
		if target != cmd.page {
			fmt.Fprintf(a.out, "error: %s is not available to %s users, showing the dashboard\n", name, role)
			a.log.Warn(ctx, "route refused", "command", name, "role", role)
			return a.dashboard(ctx, nil)
		}
		a.page = target
	}
	return cmd.run(a, ctx, args)
}

func (a *App) help() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	if !a.isLoggedIn() {
		b.WriteString("  login\n  exit\n")
		return b.String()
	}
	for _, c := range commandsFor(a.session.Current().Role) {
		fmt.Fprintf(&b, "  %s\n", c.usage)
	}
	b.WriteString("  logout\n  exit")
	return b.String()
}
