package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/services"
)

var errNoReaderProfile = fmt.Errorf("%w: this account has no reader profile", services.ErrReaderNotFound)

var errNotYourLoan = fmt.Errorf("%w: the loan belongs to another reader", services.ErrRecordNotFound)

// profile returns the logged-in reader, preferring the freshly loaded copy
// over the one saved with the session.
func (a *App) profile() (models.Reader, error) {
	st := a.session.Current()
	if st.Reader == nil {
		return models.Reader{}, errNoReaderProfile
	}
	if r, ok := a.store.Reader(st.Reader.ID); ok {
		return r, nil
	}
	return *st.Reader, nil
}

func (a *App) overview() (services.ReaderOverview, error) {
	me, err := a.profile()
	if err != nil {
		return services.ReaderOverview{}, err
	}
	return services.BuildReaderOverview(a.store.Snapshot(), me), nil
}

func (a *App) readerDashboard(ctx context.Context) error {
	ov, err := a.overview()
	if err != nil {
		return a.fail(ctx, "dashboard", err)
	}
	a.section(fmt.Sprintf("Welcome, %s", ov.Reader.Name))
	fmt.Fprintf(a.out, "On loan: %d  Overdue: %d  Can still borrow: %d\n",
		len(ov.Active)+len(ov.Overdue), len(ov.Overdue), ov.Remaining)
	if ov.Fines.IsPositive() {
		fmt.Fprintf(a.out, "Fines: %s\n", ov.Fines.StringFixed(2))
	}
	if len(ov.Overdue) > 0 {
		a.section("Overdue, please return")
		a.activityTable(ov.Overdue)
	}
	return nil
}

func (a *App) myBorrows(ctx context.Context, _ []string) error {
	ov, err := a.overview()
	if err != nil {
		return a.fail(ctx, "my loans", err)
	}
	a.section("On loan")
	a.activityTable(append(ov.Overdue, ov.Active...))
	a.section("History")
	a.activityTable(ov.History)
	return nil
}

// own loads recordID and checks it belongs to the logged-in reader.
func (a *App) own(args []string) (int64, error) {
	me, err := a.profile()
	if err != nil {
		return 0, err
	}
	recordID, err := a.argID(args, 0, "Loan record id")
	if err != nil {
		return 0, err
	}
	rec, ok := a.store.Borrow(recordID)
	if !ok {
		return 0, services.ErrRecordNotFound
	}
	if rec.ReaderID != me.ID {
		return 0, errNotYourLoan
	}
	return recordID, nil
}

func (a *App) returnOwn(ctx context.Context, args []string) error {
	recordID, err := a.own(args)
	if err != nil {
		return a.fail(ctx, "return", err)
	}
	return a.giveBack(ctx, recordID)
}

func (a *App) renewOwn(ctx context.Context, args []string) error {
	recordID, err := a.own(args)
	if err != nil {
		return a.fail(ctx, "renew", err)
	}
	return a.extend(ctx, recordID)
}

// browse lists the visible catalog. A trailing numeric argument is taken
// as a category id.
func (a *App) browse(ctx context.Context, args []string) error {
	var catID int64
	if n := len(args); n > 0 {
		if id, err := parseID(args[n-1]); err == nil {
			if _, ok := a.store.Category(id); !ok {
				return a.fail(ctx, "browse", services.ErrCategoryNotFound)
			}
			catID, args = id, args[:n-1]
		}
	}
	snap := a.store.Snapshot()
	books := services.BrowseBooks(snap.Books, strings.Join(args, " "), catID)
	a.section(fmt.Sprintf("%d books", len(books)))
	a.bookTable(books, snap.Categories)
	return nil
}

func (a *App) borrowSelf(ctx context.Context, args []string) error {
	me, err := a.profile()
	if err != nil {
		return a.fail(ctx, "borrow", err)
	}
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "borrow", err)
	}
	return a.lend(ctx, bookID, me.ID, 0)
}
