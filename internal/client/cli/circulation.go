package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (a *App) borrow(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "borrow", err)
	}
	readerID, err := a.argID(args, 1, "Reader id")
	if err != nil {
		return a.fail(ctx, "borrow", err)
	}
	var itemID int64
	if len(args) > 2 {
		if itemID, err = parseOptionalID(args[2]); err != nil {
			return a.fail(ctx, "borrow", err)
		}
	}
	return a.lend(ctx, bookID, readerID, itemID)
}

func (a *App) lend(ctx context.Context, bookID, readerID, itemID int64) error {
	rec, err := a.circ.Borrow(ctx, bookID, readerID, itemID)
	if err != nil {
		return a.fail(ctx, "borrow", err)
	}
	a.notice("Loan %s created: copy %s due %s", ref(rec.ID), ref(rec.ItemID), date(rec.DueDate))
	return nil
}

func (a *App) returnBook(ctx context.Context, args []string) error {
	recordID, err := a.argID(args, 0, "Loan record id")
	if err != nil {
		return a.fail(ctx, "return", err)
	}
	return a.giveBack(ctx, recordID)
}

func (a *App) giveBack(ctx context.Context, recordID int64) error {
	rec, err := a.circ.Return(ctx, recordID)
	if err != nil {
		return a.fail(ctx, "return", err)
	}
	if rec.OverdueFine.IsPositive() {
		a.notice("Loan %s returned, overdue fine %s", ref(rec.ID), rec.OverdueFine.StringFixed(2))
		return nil
	}
	a.notice("Loan %s returned", ref(rec.ID))
	return nil
}

func (a *App) renew(ctx context.Context, args []string) error {
	recordID, err := a.argID(args, 0, "Loan record id")
	if err != nil {
		return a.fail(ctx, "renew", err)
	}
	return a.extend(ctx, recordID)
}

func (a *App) extend(ctx context.Context, recordID int64) error {
	rec, err := a.circ.Renew(ctx, recordID)
	if err != nil {
		return a.fail(ctx, "renew", err)
	}
	a.notice("Loan %s renewed, now due %s", ref(rec.ID), date(rec.DueDate))
	return nil
}

func (a *App) purchase(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "purchase", err)
	}
	s, err := a.arg(args, 1, "Quantity")
	if err != nil {
		return a.fail(ctx, "purchase", err)
	}
	qty, err := parseQuantity(s)
	if err != nil {
		return a.fail(ctx, "purchase", err)
	}
	supplier := strings.Join(args[min(2, len(args)):], " ")

	created, err := a.circ.Purchase(ctx, bookID, qty, supplier)
	if err != nil {
		return a.fail(ctx, "purchase", err)
	}
	book, _ := a.store.Book(bookID)
	if len(created) > 0 {
		qty = len(created)
	}
	a.notice("%d copies of %q added, %d available", qty, book.Title, book.AvailableCount())
	return nil
}

func (a *App) discard(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "discard", err)
	}
	s, err := a.arg(args, 1, "Quantity")
	if err != nil {
		return a.fail(ctx, "discard", err)
	}
	qty, err := parseQuantity(s)
	if err != nil {
		return a.fail(ctx, "discard", err)
	}

	if err := a.circ.Discard(ctx, bookID, qty); err != nil {
		return a.fail(ctx, "discard", err)
	}
	book, _ := a.store.Book(bookID)
	a.notice("%d copies of %q discarded, %d available", qty, book.Title, book.AvailableCount())
	return nil
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	itemID, err := a.argID(args, 0, "Copy id")
	if err != nil {
		return a.fail(ctx, "set status", err)
	}
	var known []string
	for _, st := range models.CopyStatuses() {
		known = append(known, string(st))
	}
	s, err := a.arg(args, 1, "Status ("+strings.Join(known, ", ")+")")
	if err != nil {
		return a.fail(ctx, "set status", err)
	}
	status := models.CopyStatus(strings.TrimSpace(s))
	if !status.Known() {
		a.log.Warn(ctx, "sending unrecognised copy status", "status", status)
	}

	it, err := a.circ.SetCopyStatus(ctx, itemID, status)
	if err != nil {
		return a.fail(ctx, "set status", err)
	}
	a.notice("Copy %s is now %s", ref(itemID), it.Status.Label())
	return nil
}
