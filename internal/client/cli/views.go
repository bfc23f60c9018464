package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/services"
)

func (a *App) dashboard(ctx context.Context, _ []string) error {
	a.page = models.PageDashboard
	if a.session.Current().Role == models.RoleReader {
		return a.readerDashboard(ctx)
	}

	snap := a.store.Snapshot()
	sum := services.Summarize(snap)

	a.section("Dashboard")
	a.table([]string{"BOOKS", "COPIES", "AVAILABLE", "READERS", "ACTIVE LOANS", "OVERDUE"}, [][]string{{
		strconv.Itoa(sum.Books), strconv.Itoa(sum.TotalCopies), strconv.Itoa(sum.AvailableCopies),
		strconv.Itoa(sum.Readers), strconv.Itoa(sum.ActiveLoans), strconv.Itoa(sum.OverdueLoans),
	}})

	a.section("Recent loans")
	a.activityTable(services.RecentActivity(snap.Borrows, snap.Books, snap.Readers, 5))
	return nil
}

func (a *App) activityTable(acts []services.Activity) {
	rows := make([][]string, 0, len(acts))
	for _, act := range acts {
		r := act.Record
		rows = append(rows, []string{
			ref(r.ID), act.BookTitle, act.ReaderName, date(r.BorrowDate), date(r.DueDate),
			returned(r.ReturnDate), r.Status.Label(), money(r.OverdueFine),
		})
	}
	a.table([]string{"RECORD", "BOOK", "READER", "BORROWED", "DUE", "RETURNED", "STATUS", "FINE"}, rows)
}

func (a *App) bookTable(books []models.Book, cats []models.Category) {
	byID := make(map[int64]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		title := b.Title
		if b.Deleted() {
			title += " (deleted)"
		}
		rows = append(rows, []string{
			ref(b.ID), title, b.Author, services.CategoryName(b, byID),
			fmt.Sprintf("%d/%d", b.AvailableCount(), len(b.BookItems)), strconv.Itoa(b.BorrowTimes),
		})
	}
	a.table([]string{"BOOK", "TITLE", "AUTHOR", "CATEGORY", "AVAILABLE", "BORROWED"}, rows)
}

func (a *App) listBooks(_ context.Context, args []string) error {
	snap := a.store.Snapshot()
	books := snap.Books
	if q := strings.Join(args, " "); q != "" {
		books = services.BrowseBooks(books, q, 0)
	}
	a.section("Books")
	a.bookTable(books, snap.Categories)
	return nil
}

func (a *App) listItems(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "list copies", err)
	}
	book, ok := a.store.Book(bookID)
	if !ok {
		return a.fail(ctx, "list copies", services.ErrBookNotFound)
	}

	rows := make([][]string, 0, len(book.BookItems))
	for _, it := range book.BookItems {
		rows = append(rows, []string{
			ref(it.ID), it.Barcode, it.Location, it.Status.Label(), money(it.PriceAtEntry), date(it.EntryDate),
		})
	}
	a.section(fmt.Sprintf("Copies of %q (%d available)", book.Title, book.AvailableCount()))
	a.table([]string{"COPY", "BARCODE", "LOCATION", "STATUS", "PRICE", "ENTERED"}, rows)
	return nil
}

func (a *App) listReaders(_ context.Context, _ []string) error {
	readers := a.store.Readers()
	rows := make([][]string, 0, len(readers))
	for _, r := range readers {
		rows = append(rows, []string{
			ref(r.ID), r.Name, r.ReaderType.Label(), r.ClassDept,
			fmt.Sprintf("%d/%d", r.BorrowedCount, r.BorrowLimit), r.Contact,
		})
	}
	a.section("Readers")
	a.table([]string{"READER", "NAME", "TYPE", "CLASS", "LOANS", "CONTACT"}, rows)
	return nil
}

func (a *App) listBorrows(ctx context.Context, args []string) error {
	var q services.RecordQuery
	if len(args) > 0 {
		st, ok := parseBorrowStatus(args[0])
		if !ok {
			return a.fail(ctx, "list loans", fmt.Errorf("unknown status %q", args[0]))
		}
		q.Status = st
	}
	a.section("Loans")
	a.activityTable(services.SearchRecords(a.store.Snapshot(), q))
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	text, err := a.arg(args, 0, "Book title or reader name (empty for all)")
	if err != nil {
		return a.fail(ctx, "search", err)
	}
	q := services.RecordQuery{Text: text}
	if len(args) > 1 {
		if q.From, err = parseOptionalDate(args[1]); err != nil {
			return a.fail(ctx, "search", err)
		}
	}
	if len(args) > 2 {
		if q.To, err = parseOptionalDate(args[2]); err != nil {
			return a.fail(ctx, "search", err)
		}
	}
	res := services.SearchRecords(a.store.Snapshot(), q)
	a.section(fmt.Sprintf("%d matching loans", len(res)))
	a.activityTable(res)
	return nil
}

func (a *App) overdue(_ context.Context, _ []string) error {
	acts, total := services.OverdueReport(a.store.Snapshot())
	a.section("Overdue loans")
	a.activityTable(acts)
	fmt.Fprintf(a.out, "Outstanding fines: %s\n", total.StringFixed(2))
	return nil
}

func (a *App) listCategories(_ context.Context, _ []string) error {
	cats := a.store.Categories()
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{ref(c.ID), c.Code, c.Name})
	}
	a.section("Categories")
	a.table([]string{"CATEGORY", "CODE", "NAME"}, rows)
	return nil
}

func (a *App) stats(_ context.Context, _ []string) error {
	snap := a.store.Snapshot()
	sum := services.Summarize(snap)

	a.section("Statistics")
	fmt.Fprintf(a.out, "Books: %d  Copies: %d  Available: %d\n", sum.Books, sum.TotalCopies, sum.AvailableCopies)
	fmt.Fprintf(a.out, "Readers: %d  Active readers: %d\n", sum.Readers, sum.ActiveReaders)
	fmt.Fprintf(a.out, "Active loans: %d  Overdue: %d  Outstanding fines: %s\n",
		sum.ActiveLoans, sum.OverdueLoans, sum.OutstandingFines.StringFixed(2))

	a.section("Most borrowed")
	top := services.TopBorrowed(snap.Books, 10)
	rows := make([][]string, 0, len(top))
	for i, b := range top {
		rows = append(rows, []string{strconv.Itoa(i + 1), b.Title, b.Author, strconv.Itoa(b.BorrowTimes)})
	}
	a.table([]string{"RANK", "TITLE", "AUTHOR", "BORROWED"}, rows)

	a.section("Copies per category")
	dist := services.CategoryDistribution(snap.Books, snap.Categories)
	rows = make([][]string, 0, len(dist))
	for _, c := range dist {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Copies)})
	}
	a.table([]string{"CATEGORY", "COPIES"}, rows)
	return nil
}

func (a *App) stock(_ context.Context, _ []string) error {
	low, out := services.StockAlerts(a.store.Books())
	lines := func(ls []services.StockLine) [][]string {
		rows := make([][]string, 0, len(ls))
		for _, l := range ls {
			rows = append(rows, []string{ref(l.BookID), l.Title, fmt.Sprintf("%d/%d", l.Available, l.Total)})
		}
		return rows
	}
	a.section(fmt.Sprintf("Low stock (fewer than %d available)", services.LowStockThreshold))
	a.table([]string{"BOOK", "TITLE", "AVAILABLE"}, lines(low))
	a.section("Out of stock")
	a.table([]string{"BOOK", "TITLE", "AVAILABLE"}, lines(out))
	return nil
}

func (a *App) export(ctx context.Context, _ []string) error {
	report := services.BuildReport(a.store.Snapshot(), a.now())
	location, err := a.exporter.Export(ctx, report)
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	a.notice("Report saved to %s", location)
	return nil
}

func (a *App) refresh(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.store.LoadAll(ctx); err != nil {
			return a.fail(ctx, "refresh", err)
		}
		a.notice("All collections refreshed")
		return nil
	}

	var c services.Collection
	switch strings.ToLower(args[0]) {
	case "books":
		c = services.Books
	case "readers":
		c = services.Readers
	case "borrows", "loans":
		c = services.Borrows
	case "categories":
		c = services.Categories
	default:
		return a.fail(ctx, "refresh", fmt.Errorf("unknown collection %q", args[0]))
	}
	if err := a.store.Refresh(ctx, c); err != nil {
		return a.fail(ctx, "refresh", err)
	}
	a.notice("%s refreshed", c)
	return nil
}
