package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/go-playground/validator/v10"
)

// Circulation runs every mutating action. Preconditions are checked against
// the store first; the store changes only after the server confirmed.
type Circulation struct {
	api      client.Client
	store    *Store
	validate *validator.Validate
	log      logging.Logger
	now      func() time.Time
}

func NewCirculation(api client.Client, store *Store, log logging.Logger) *Circulation {
	return &Circulation{
		api:      api,
		store:    store,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

func (c *Circulation) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (c *Circulation) failed(ctx context.Context, action string, err error, args ...any) error {
	args = append(args, "action", action, "error", err)
	if errors.Is(err, client.ErrUnavailable) {
		c.log.Error(ctx, "action failed", args...)
	} else {
		c.log.Warn(ctx, "action failed", args...)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// refreshAfter re-fetches books after a successful mutation. The mutation
// already happened, so a failed refresh is only logged.
func (c *Circulation) refreshAfter(ctx context.Context, action string) {
	if err := c.store.RefreshBooks(ctx); err != nil {
		c.log.Warn(ctx, "refresh after action failed", "action", action, "error", err)
	}
}

// Borrow lends itemID of bookID to readerID. itemID 0 takes the first
// available copy.
func (c *Circulation) Borrow(ctx context.Context, bookID, readerID, itemID int64) (models.BorrowRecord, error) {
	reader, ok := c.store.Reader(readerID)
	if !ok {
		return models.BorrowRecord{}, ErrReaderNotFound
	}
	if !reader.CanBorrow() {
		return models.BorrowRecord{}, ErrBorrowLimitReached
	}
	book, ok := c.store.Book(bookID)
	if !ok || book.Deleted() {
		return models.BorrowRecord{}, ErrBookNotFound
	}
	available := book.AvailableItems()
	if len(available) == 0 {
		return models.BorrowRecord{}, ErrNoAvailableCopy
	}
	if itemID == 0 {
		itemID = available[0].ID
	} else if it, ok := book.Item(itemID); !ok || !it.Available() {
		return models.BorrowRecord{}, ErrCopyNotAvailable
	}

	req := models.BorrowRequest{BookID: bookID, ReaderID: readerID, ItemID: itemID}
	if err := c.check(req); err != nil {
		return models.BorrowRecord{}, err
	}

	rec, err := c.api.Borrow(ctx, req)
	if err != nil {
		return models.BorrowRecord{}, c.failed(ctx, "borrow", err, "book_id", bookID, "reader_id", readerID)
	}
	if rec.Status == "" {
		rec.Status = models.BorrowActive
	}
	if rec.BookID == 0 {
		rec.BookID = bookID
	}
	if rec.ReaderID == 0 {
		rec.ReaderID = readerID
	}
	if rec.ItemID == 0 {
		rec.ItemID = itemID
	}
	if rec.BookTitle == "" {
		rec.BookTitle = book.Title
	}

	c.store.upsertBorrow(rec)
	c.store.updateReader(readerID, func(r *models.Reader) { r.BorrowedCount++ })
	c.store.updateBook(bookID, func(b *models.Book) {
		b.BorrowTimes++
		setItemStatus(b, itemID, models.CopyBorrowed)
	})
	c.refreshAfter(ctx, "borrow")

	c.log.Info(ctx, "book borrowed", "record_id", rec.ID, "book_id", bookID, "reader_id", readerID, "item_id", itemID)
	return rec, nil
}

// Return closes an active loan.
func (c *Circulation) Return(ctx context.Context, recordID int64) (models.BorrowRecord, error) {
	prev, ok := c.store.Borrow(recordID)
	if !ok {
		return models.BorrowRecord{}, ErrRecordNotFound
	}
	if !prev.IsActive() {
		return models.BorrowRecord{}, ErrRecordNotActive
	}

	rec, err := c.api.Return(ctx, recordID)
	if errors.Is(err, client.ErrNotFound) || errors.Is(err, client.ErrEmptyResponse) {
		err = fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if err == nil && rec.ID == 0 {
		err = ErrRecordNotFound
	}
	if err != nil {
		return models.BorrowRecord{}, c.failed(ctx, "return", err, "record_id", recordID)
	}
	fillFrom(&rec, prev)
	if rec.Status == "" || rec.Status.IsActive() {
		rec.Status = models.BorrowReturned
	}

	c.store.upsertBorrow(rec)
	c.store.updateReader(prev.ReaderID, func(r *models.Reader) {
		if r.BorrowedCount > 0 {
			r.BorrowedCount--
		}
	})
	if prev.ItemID != 0 {
		c.store.updateBook(prev.BookID, func(b *models.Book) { setItemStatus(b, prev.ItemID, models.CopyAvailable) })
	}
	c.refreshAfter(ctx, "return")

	c.log.Info(ctx, "book returned", "record_id", recordID, "fine", rec.OverdueFine.StringFixed(2))
	return rec, nil
}

// CanRenew mirrors the check Renew performs.
func (c *Circulation) CanRenew(rec models.BorrowRecord) bool {
	return rec.IsActive() && !rec.IsOverdue(c.now())
}

// Renew extends an active, not overdue loan.
func (c *Circulation) Renew(ctx context.Context, recordID int64) (models.BorrowRecord, error) {
	prev, ok := c.store.Borrow(recordID)
	if !ok {
		return models.BorrowRecord{}, ErrRecordNotFound
	}
	if !prev.IsActive() {
		return models.BorrowRecord{}, ErrRecordNotActive
	}
	if prev.IsOverdue(c.now()) {
		return models.BorrowRecord{}, ErrRenewOverdue
	}

	rec, err := c.api.Renew(ctx, recordID)
	if errors.Is(err, client.ErrNotFound) || errors.Is(err, client.ErrEmptyResponse) {
		err = fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if err != nil {
		return models.BorrowRecord{}, c.failed(ctx, "renew", err, "record_id", recordID)
	}
	fillFrom(&rec, prev)
	if rec.Status == "" {
		rec.Status = prev.Status
	}

	c.store.upsertBorrow(rec)
	c.log.Info(ctx, "loan renewed", "record_id", recordID, "due", rec.DueDate.String())
	return rec, nil
}

// DeleteBook refuses books with copies on loan without calling the server.
func (c *Circulation) DeleteBook(ctx context.Context, bookID int64) error {
	if _, ok := c.store.Book(bookID); !ok {
		return ErrBookNotFound
	}
	for _, r := range c.store.Borrows() {
		if r.BookID == bookID && r.IsActive() {
			return ErrBookHasActiveLoans
		}
	}

	if err := c.api.DeleteBook(ctx, bookID); err != nil {
		return c.failed(ctx, "delete book", err, "book_id", bookID)
	}
	c.store.removeBook(bookID)
	c.log.Info(ctx, "book deleted", "book_id", bookID)
	return nil
}

// Purchase adds quantity copies to a book.
func (c *Circulation) Purchase(ctx context.Context, bookID int64, quantity int, supplier string) ([]models.BookItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, ok := c.store.Book(bookID); !ok {
		return nil, ErrBookNotFound
	}
	req := models.PurchaseRequest{BookID: bookID, Quantity: quantity, Supplier: supplier}
	if err := c.check(req); err != nil {
		return nil, err
	}

	created, err := c.api.PurchaseCopies(ctx, req)
	if err != nil {
		return nil, c.failed(ctx, "purchase", err, "book_id", bookID, "quantity", quantity)
	}
	if len(created) > 0 {
		c.store.updateBook(bookID, func(b *models.Book) {
			for _, it := range created {
				if _, ok := b.Item(it.ID); !ok {
					b.BookItems = append(b.BookItems, it)
				}
			}
		})
	}
	c.refreshAfter(ctx, "purchase")

	c.log.Info(ctx, "copies purchased", "book_id", bookID, "quantity", quantity)
	return created, nil
}

// Discard removes quantity available copies; copies on loan are never
// touched, so quantity may not exceed the available count.
func (c *Circulation) Discard(ctx context.Context, bookID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	book, ok := c.store.Book(bookID)
	if !ok {
		return ErrBookNotFound
	}
	if quantity > book.AvailableCount() {
		return ErrDiscardExceedsAvailable
	}

	if err := c.api.DiscardCopies(ctx, models.DiscardRequest{BookID: bookID, Quantity: quantity}); err != nil {
		return c.failed(ctx, "discard", err, "book_id", bookID, "quantity", quantity)
	}
	c.refreshAfter(ctx, "discard")

	c.log.Info(ctx, "copies discarded", "book_id", bookID, "quantity", quantity)
	return nil
}

// SetCopyStatus passes any status through; there is no transition check.
func (c *Circulation) SetCopyStatus(ctx context.Context, itemID int64, status models.CopyStatus) (models.BookItem, error) {
	if status == "" {
		return models.BookItem{}, fmt.Errorf("%w: status is required", ErrValidation)
	}
	book, ok := c.store.ItemOwner(itemID)
	if !ok {
		return models.BookItem{}, ErrCopyNotFound
	}

	it, err := c.api.SetBookItemStatus(ctx, itemID, status)
	if err != nil {
		return models.BookItem{}, c.failed(ctx, "set copy status", err, "item_id", itemID, "status", status)
	}
	if it.Status == "" {
		it.Status = status
	}
	c.store.updateBook(book.ID, func(b *models.Book) { setItemStatus(b, itemID, it.Status) })

	c.log.Info(ctx, "copy status changed", "item_id", itemID, "status", it.Status)
	return it, nil
}

func setItemStatus(b *models.Book, itemID int64, status models.CopyStatus) {
	for i := range b.BookItems {
		if b.BookItems[i].ID == itemID {
			b.BookItems[i].Status = status
			return
		}
	}
}

// fillFrom copies identifying fields the server omitted.
func fillFrom(rec *models.BorrowRecord, prev models.BorrowRecord) {
	if rec.ID == 0 {
		rec.ID = prev.ID
	}
	if rec.BookID == 0 {
		rec.BookID = prev.BookID
	}
	if rec.ReaderID == 0 {
		rec.ReaderID = prev.ReaderID
	}
	if rec.ItemID == 0 {
		rec.ItemID = prev.ItemID
	}
	if rec.BookTitle == "" {
		rec.BookTitle = prev.BookTitle
	}
	if rec.BorrowDate.IsZero() {
		rec.BorrowDate = prev.BorrowDate
	}
}
