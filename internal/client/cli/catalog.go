package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/services"
)

// bookForm asks for every editable book field, offering b's values as
// defaults.
func (a *App) bookForm(b models.Book) (models.Book, error) {
	var err error
	if b.Title, err = a.ask("Title", b.Title); err != nil {
		return b, err
	}
	if b.Author, err = a.ask("Author", b.Author); err != nil {
		return b, err
	}
	if b.Publisher, err = a.ask("Publisher", b.Publisher); err != nil {
		return b, err
	}
	if b.ISBN, err = a.ask("ISBN", b.ISBN); err != nil {
		return b, err
	}

	def := ""
	if b.CategoryID != 0 {
		def = strconv.FormatInt(b.CategoryID, 10)
	}
	s, err := a.ask("Category id (empty for none)", def)
	if err != nil {
		return b, err
	}
	if b.CategoryID, err = parseOptionalID(s); err != nil {
		return b, err
	}
	if b.CategoryID != 0 {
		cat, ok := a.store.Category(b.CategoryID)
		if !ok {
			return b, services.ErrCategoryNotFound
		}
		b.Category = cat.Name
	}

	if s, err = a.ask("Publish date (yyyy-mm-dd)", dateDefault(b.PublishDate)); err != nil {
		return b, err
	}
	if b.PublishDate, err = parseOptionalDate(s); err != nil {
		return b, err
	}

	priceDef := ""
	if !b.Price.IsZero() {
		priceDef = b.Price.StringFixed(2)
	}
	if s, err = a.ask("Price", priceDef); err != nil {
		return b, err
	}
	if b.Price, err = parseOptionalDecimal(s); err != nil {
		return b, err
	}

	desc, err := GetMultiline(a.reader, "Description (empty keeps the current one)", a.out)
	if err != nil {
		return b, err
	}
	if desc != "" {
		b.Description = desc
	}
	return b, nil
}

func dateDefault(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func (a *App) addBook(ctx context.Context, _ []string) error {
	b, err := a.bookForm(models.Book{EntryDate: models.DateOf(a.now())})
	if err != nil {
		return a.fail(ctx, "add book", err)
	}
	created, err := a.circ.AddBook(ctx, b)
	if err != nil {
		return a.fail(ctx, "add book", err)
	}
	a.notice("Book %q added as %s", b.Title, ref(created.ID))
	return nil
}

func (a *App) editBook(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "edit book", err)
	}
	book, ok := a.store.Book(bookID)
	if !ok {
		return a.fail(ctx, "edit book", services.ErrBookNotFound)
	}
	b, err := a.bookForm(book)
	if err != nil {
		return a.fail(ctx, "edit book", err)
	}
	b.BookItems = nil
	if _, err := a.circ.UpdateBook(ctx, b); err != nil {
		return a.fail(ctx, "edit book", err)
	}
	a.notice("Book %s updated", ref(bookID))
	return nil
}

func (a *App) deleteBook(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "delete book", err)
	}
	if err := a.circ.DeleteBook(ctx, bookID); err != nil {
		return a.fail(ctx, "delete book", err)
	}
	a.notice("Book %s deleted", ref(bookID))
	return nil
}

func (a *App) copyForm(it models.BookItem) (models.BookItem, error) {
	var err error
	if it.Barcode, err = a.ask("Barcode", it.Barcode); err != nil {
		return it, err
	}
	if it.Location, err = a.ask("Location", it.Location); err != nil {
		return it, err
	}
	it.Notes, err = a.ask("Notes", it.Notes)
	return it, err
}

func (a *App) addCopy(ctx context.Context, args []string) error {
	bookID, err := a.argID(args, 0, "Book id")
	if err != nil {
		return a.fail(ctx, "add copy", err)
	}
	it, err := a.copyForm(models.BookItem{BookID: bookID, EntryDate: models.DateOf(a.now())})
	if err != nil {
		return a.fail(ctx, "add copy", err)
	}
	created, err := a.circ.AddCopy(ctx, it)
	if err != nil {
		return a.fail(ctx, "add copy", err)
	}
	a.notice("Copy %s added to book %s", ref(created.ID), ref(bookID))
	return nil
}

func (a *App) editCopy(ctx context.Context, args []string) error {
	itemID, err := a.argID(args, 0, "Copy id")
	if err != nil {
		return a.fail(ctx, "edit copy", err)
	}
	book, ok := a.store.ItemOwner(itemID)
	if !ok {
		return a.fail(ctx, "edit copy", services.ErrCopyNotFound)
	}
	it, _ := book.Item(itemID)
	if it, err = a.copyForm(it); err != nil {
		return a.fail(ctx, "edit copy", err)
	}
	if _, err := a.circ.UpdateCopy(ctx, it); err != nil {
		return a.fail(ctx, "edit copy", err)
	}
	a.notice("Copy %s updated", ref(itemID))
	return nil
}

func (a *App) deleteCopy(ctx context.Context, args []string) error {
	itemID, err := a.argID(args, 0, "Copy id")
	if err != nil {
		return a.fail(ctx, "delete copy", err)
	}
	if err := a.circ.DeleteCopy(ctx, itemID); err != nil {
		return a.fail(ctx, "delete copy", err)
	}
	a.notice("Copy %s deleted", ref(itemID))
	return nil
}

func (a *App) readerForm(r models.Reader) (models.Reader, error) {
	var err error
	if r.Name, err = a.ask("Name", r.Name); err != nil {
		return r, err
	}
	def := ""
	if _, ok := models.ParseReaderType(string(r.ReaderType)); ok {
		def = r.ReaderType.Label()
	}
	s, err := a.ask("Type (student|teacher)", def)
	if err != nil {
		return r, err
	}
	t, ok := models.ParseReaderType(strings.ToLower(s))
	if !ok {
		return r, services.ErrValidation
	}
	r.ReaderType = t
	if r.ClassDept, err = a.ask("Class or department", r.ClassDept); err != nil {
		return r, err
	}
	if r.Contact, err = a.ask("Contact", r.Contact); err != nil {
		return r, err
	}
	return r, nil
}

func (a *App) addReader(ctx context.Context, _ []string) error {
	r, err := a.readerForm(models.Reader{})
	if err != nil {
		return a.fail(ctx, "add reader", err)
	}
	created, err := a.circ.AddReader(ctx, r)
	if err != nil {
		return a.fail(ctx, "add reader", err)
	}
	a.notice("Reader %q added as %s (limit %d)", r.Name, ref(created.ID), created.BorrowLimit)
	return nil
}

func (a *App) editReader(ctx context.Context, args []string) error {
	readerID, err := a.argID(args, 0, "Reader id")
	if err != nil {
		return a.fail(ctx, "edit reader", err)
	}
	current, ok := a.store.Reader(readerID)
	if !ok {
		return a.fail(ctx, "edit reader", services.ErrReaderNotFound)
	}
	r, err := a.readerForm(current)
	if err != nil {
		return a.fail(ctx, "edit reader", err)
	}
	s, err := a.ask("Borrow limit", strconv.Itoa(r.BorrowLimit))
	if err != nil {
		return a.fail(ctx, "edit reader", err)
	}
	if r.BorrowLimit, err = parseQuantity(s); err != nil {
		return a.fail(ctx, "edit reader", err)
	}
	if _, err := a.circ.UpdateReader(ctx, r); err != nil {
		return a.fail(ctx, "edit reader", err)
	}
	a.notice("Reader %s updated", ref(readerID))
	return nil
}

func (a *App) deleteReader(ctx context.Context, args []string) error {
	readerID, err := a.argID(args, 0, "Reader id")
	if err != nil {
		return a.fail(ctx, "delete reader", err)
	}
	if err := a.circ.DeleteReader(ctx, readerID); err != nil {
		return a.fail(ctx, "delete reader", err)
	}
	a.notice("Reader %s deleted", ref(readerID))
	return nil
}

func (a *App) addCategory(ctx context.Context, args []string) error {
	name, err := a.arg(args, 0, "Category name")
	if err != nil {
		return a.fail(ctx, "add category", err)
	}
	cat := models.Category{Name: name}
	if len(args) > 1 {
		cat.Code = args[1]
	}
	created, err := a.circ.AddCategory(ctx, cat)
	if err != nil {
		return a.fail(ctx, "add category", err)
	}
	a.notice("Category %q added as %s", name, ref(created.ID))
	return nil
}

func (a *App) editCategory(ctx context.Context, args []string) error {
	catID, err := a.argID(args, 0, "Category id")
	if err != nil {
		return a.fail(ctx, "edit category", err)
	}
	cat, ok := a.store.Category(catID)
	if !ok {
		return a.fail(ctx, "edit category", services.ErrCategoryNotFound)
	}
	if cat.Name, err = a.ask("Name", cat.Name); err != nil {
		return a.fail(ctx, "edit category", err)
	}
	if _, err := a.circ.UpdateCategory(ctx, cat); err != nil {
		return a.fail(ctx, "edit category", err)
	}
	a.notice("Category %s renamed to %q", ref(catID), cat.Name)
	return nil
}

func (a *App) deleteCategory(ctx context.Context, args []string) error {
	catID, err := a.argID(args, 0, "Category id")
	if err != nil {
		return a.fail(ctx, "delete category", err)
	}
	if err := a.circ.DeleteCategory(ctx, catID); err != nil {
		return a.fail(ctx, "delete category", err)
	}
	a.notice("Category %s deleted", ref(catID))
	return nil
}
