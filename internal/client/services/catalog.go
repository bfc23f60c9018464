package services

import (
	"context"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

// AddBook creates a catalog entry.
func (c *Circulation) AddBook(ctx context.Context, b models.Book) (models.Book, error) {
	if err := c.check(b); err != nil {
		return models.Book{}, err
	}
	created, err := c.api.CreateBook(ctx, b)
	if err != nil {
		return models.Book{}, c.failed(ctx, "add book", err, "title", b.Title)
	}
	if created.ID == 0 {
		c.refreshAfter(ctx, "add book")
		return created, nil
	}
	c.store.upsertBook(created)
	c.log.Info(ctx, "book added", "book_id", created.ID)
	return created, nil
}

// UpdateBook edits catalog fields. Copies are kept from the store when the
// response leaves them out.
func (c *Circulation) UpdateBook(ctx context.Context, b models.Book) (models.Book, error) {
	prev, ok := c.store.Book(b.ID)
	if !ok {
		return models.Book{}, ErrBookNotFound
	}
	if err := c.check(b); err != nil {
		return models.Book{}, err
	}
	updated, err := c.api.UpdateBook(ctx, b)
	if err != nil {
		return models.Book{}, c.failed(ctx, "update book", err, "book_id", b.ID)
	}
	if updated.ID == 0 {
		updated = b
	}
	if updated.BookItems == nil {
		updated.BookItems = prev.BookItems
	}
	c.store.upsertBook(updated)
	c.log.Info(ctx, "book updated", "book_id", b.ID)
	return updated, nil
}

// AddReader registers a patron. A zero limit is replaced by the default
// for the reader type.
func (c *Circulation) AddReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	if r.BorrowLimit == 0 {
		r.BorrowLimit = models.DefaultBorrowLimit(r.ReaderType)
	}
	if err := c.check(r); err != nil {
		return models.Reader{}, err
	}
	created, err := c.api.CreateReader(ctx, r)
	if err != nil {
		return models.Reader{}, c.failed(ctx, "add reader", err, "name", r.Name)
	}
	if created.ID == 0 {
		if err := c.store.RefreshReaders(ctx); err != nil {
			c.log.Warn(ctx, "refresh after action failed", "action", "add reader", "error", err)
		}
		return created, nil
	}
	created.Password = ""
	c.store.upsertReader(created)
	c.log.Info(ctx, "reader added", "reader_id", created.ID)
	return created, nil
}

func (c *Circulation) UpdateReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	if _, ok := c.store.Reader(r.ID); !ok {
		return models.Reader{}, ErrReaderNotFound
	}
	if err := c.check(r); err != nil {
		return models.Reader{}, err
	}
	updated, err := c.api.UpdateReader(ctx, r)
	if err != nil {
		return models.Reader{}, c.failed(ctx, "update reader", err, "reader_id", r.ID)
	}
	if updated.ID == 0 {
		updated = r
	}
	updated.Password = ""
	c.store.upsertReader(updated)
	return updated, nil
}

// DeleteReader refuses readers who still hold books.
func (c *Circulation) DeleteReader(ctx context.Context, id int64) error {
	if _, ok := c.store.Reader(id); !ok {
		return ErrReaderNotFound
	}
	for _, rec := range c.store.Borrows() {
		if rec.ReaderID == id && rec.IsActive() {
			return ErrReaderHasActiveLoans
		}
	}
	if err := c.api.DeleteReader(ctx, id); err != nil {
		return c.failed(ctx, "delete reader", err, "reader_id", id)
	}
	c.store.removeReader(id)
	c.log.Info(ctx, "reader deleted", "reader_id", id)
	return nil
}

// AddCategory creates a category. The code is generated server-side when
// left empty.
func (c *Circulation) AddCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	if err := c.check(cat); err != nil {
		return models.Category{}, err
	}
	created, err := c.api.CreateCategory(ctx, cat)
	if err != nil {
		return models.Category{}, c.failed(ctx, "add category", err, "name", cat.Name)
	}
	if created.ID == 0 {
		if err := c.store.RefreshCategories(ctx); err != nil {
			c.log.Warn(ctx, "refresh after action failed", "action", "add category", "error", err)
		}
		return created, nil
	}
	c.store.upsertCategory(created)
	return created, nil
}

func (c *Circulation) UpdateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	if _, ok := c.store.Category(cat.ID); !ok {
		return models.Category{}, ErrCategoryNotFound
	}
	if err := c.check(cat); err != nil {
		return models.Category{}, err
	}
	updated, err := c.api.UpdateCategory(ctx, cat)
	if err != nil {
		return models.Category{}, c.failed(ctx, "update category", err, "category_id", cat.ID)
	}
	if updated.ID == 0 {
		updated = cat
	}
	c.store.upsertCategory(updated)
	return updated, nil
}

func (c *Circulation) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := c.store.Category(id); !ok {
		return ErrCategoryNotFound
	}
	if err := c.api.DeleteCategory(ctx, id); err != nil {
		return c.failed(ctx, "delete category", err, "category_id", id)
	}
	c.store.removeCategory(id)
	return nil
}

// AddCopy registers one physical copy of an existing book.
func (c *Circulation) AddCopy(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	if _, ok := c.store.Book(it.BookID); !ok {
		return models.BookItem{}, ErrBookNotFound
	}
	if it.Status == "" {
		it.Status = models.CopyAvailable
	}
	if err := c.check(it); err != nil {
		return models.BookItem{}, err
	}
	created, err := c.api.CreateBookItem(ctx, it)
	if err != nil {
		return models.BookItem{}, c.failed(ctx, "add copy", err, "book_id", it.BookID)
	}
	c.refreshAfter(ctx, "add copy")
	return created, nil
}

func (c *Circulation) UpdateCopy(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	book, ok := c.store.ItemOwner(it.ID)
	if !ok {
		return models.BookItem{}, ErrCopyNotFound
	}
	if it.BookID == 0 {
		it.BookID = book.ID
	}
	if err := c.check(it); err != nil {
		return models.BookItem{}, err
	}
	updated, err := c.api.UpdateBookItem(ctx, it)
	if err != nil {
		return models.BookItem{}, c.failed(ctx, "update copy", err, "item_id", it.ID)
	}
	if updated.ID == 0 {
		updated = it
	}
	c.store.updateBook(book.ID, func(b *models.Book) {
		for i := range b.BookItems {
			if b.BookItems[i].ID == updated.ID {
				b.BookItems[i] = updated
			}
		}
	})
	return updated, nil
}

// DeleteCopy never removes a copy that is on loan.
func (c *Circulation) DeleteCopy(ctx context.Context, itemID int64) error {
	book, ok := c.store.ItemOwner(itemID)
	if !ok {
		return ErrCopyNotFound
	}
	if it, _ := book.Item(itemID); it.Status == models.CopyBorrowed {
		return ErrCopyOnLoan
	}
	if err := c.api.DeleteBookItem(ctx, itemID); err != nil {
		return c.failed(ctx, "delete copy", err, "item_id", itemID)
	}
	c.store.updateBook(book.ID, func(b *models.Book) {
		b.BookItems = remove(b.BookItems, func(x models.BookItem) bool { return x.ID == itemID })
	})
	return nil
}
