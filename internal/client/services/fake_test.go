package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory library server. It applies the same state
// changes the real server does, counts calls per method and can be told to
// fail any method.
type fakeAPI struct {
	mu      sync.Mutex
	books   []models.Book
	readers []models.Reader
	borrows []models.BorrowRecord
	cats    []models.Category
	nextID  int64

	calls map[string]int
	errs  map[string]error

	loginRes client.LoginResult
	loginErr error
}

var _ client.Client = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1000, calls: map[string]int{}, errs: map[string]error{}}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) totalMutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for name, c := range f.calls {
		if len(name) < 4 || name[:4] != "List" {
			n += c
		}
	}
	return n
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (client.LoginResult, error) {
	if err := f.hit("Login"); err != nil {
		return client.LoginResult{}, err
	}
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) ListBooks(ctx context.Context) ([]models.Book, error) {
	if err := f.hit("ListBooks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneBooks(f.books), nil
}

func (f *fakeAPI) CreateBook(ctx context.Context, b models.Book) (models.Book, error) {
	if err := f.hit("CreateBook"); err != nil {
		return models.Book{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.id()
	f.books = append(f.books, b)
	return b.Clone(), nil
}

func (f *fakeAPI) UpdateBook(ctx context.Context, b models.Book) (models.Book, error) {
	if err := f.hit("UpdateBook"); err != nil {
		return models.Book{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		if f.books[i].ID == b.ID {
			b.BookItems = f.books[i].BookItems
			f.books[i] = b
			return b.Clone(), nil
		}
	}
	return models.Book{}, client.ErrNotFound
}

func (f *fakeAPI) DeleteBook(ctx context.Context, id int64) error {
	if err := f.hit("DeleteBook"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books = remove(f.books, func(b models.Book) bool { return b.ID == id })
	return nil
}

func (f *fakeAPI) book(id int64) *models.Book {
	for i := range f.books {
		if f.books[i].ID == id {
			return &f.books[i]
		}
	}
	return nil
}

func (f *fakeAPI) ListBookItems(ctx context.Context) ([]models.BookItem, error) {
	if err := f.hit("ListBookItems"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BookItem
	for _, b := range f.books {
		out = append(out, b.BookItems...)
	}
	return out, nil
}

func (f *fakeAPI) GetBookItem(ctx context.Context, id int64) (models.BookItem, error) {
	if err := f.hit("GetBookItem"); err != nil {
		return models.BookItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if it, ok := b.Item(id); ok {
			return it, nil
		}
	}
	return models.BookItem{}, client.ErrNotFound
}

func (f *fakeAPI) CreateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	if err := f.hit("CreateBookItem"); err != nil {
		return models.BookItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.book(it.BookID)
	if b == nil {
		return models.BookItem{}, client.ErrNotFound
	}
	it.ID = f.id()
	b.BookItems = append(b.BookItems, it)
	return it, nil
}

func (f *fakeAPI) UpdateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	if err := f.hit("UpdateBookItem"); err != nil {
		return models.BookItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.book(it.BookID)
	if b == nil {
		return models.BookItem{}, client.ErrNotFound
	}
	for i := range b.BookItems {
		if b.BookItems[i].ID == it.ID {
			b.BookItems[i] = it
			return it, nil
		}
	}
	return models.BookItem{}, client.ErrNotFound
}

func (f *fakeAPI) DeleteBookItem(ctx context.Context, id int64) error {
	if err := f.hit("DeleteBookItem"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		f.books[i].BookItems = remove(f.books[i].BookItems, func(x models.BookItem) bool { return x.ID == id })
	}
	return nil
}

func (f *fakeAPI) PurchaseCopies(ctx context.Context, req models.PurchaseRequest) ([]models.BookItem, error) {
	if err := f.hit("PurchaseCopies"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.book(req.BookID)
	if b == nil {
		return nil, client.ErrNotFound
	}
	var created []models.BookItem
	for i := 0; i < req.Quantity; i++ {
		it := models.BookItem{ID: f.id(), BookID: b.ID, Status: models.CopyAvailable, Notes: req.Supplier}
		b.BookItems = append(b.BookItems, it)
		created = append(created, it)
	}
	return created, nil
}

func (f *fakeAPI) DiscardCopies(ctx context.Context, req models.DiscardRequest) error {
	if err := f.hit("DiscardCopies"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.book(req.BookID)
	if b == nil {
		return client.ErrNotFound
	}
	left := req.Quantity
	b.BookItems = remove(b.BookItems, func(x models.BookItem) bool {
		if left > 0 && x.Available() {
			left--
			return true
		}
		return false
	})
	return nil
}

func (f *fakeAPI) SetBookItemStatus(ctx context.Context, id int64, status models.CopyStatus) (models.BookItem, error) {
	if err := f.hit("SetBookItemStatus"); err != nil {
		return models.BookItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		for j := range f.books[i].BookItems {
			if f.books[i].BookItems[j].ID == id {
				f.books[i].BookItems[j].Status = status
				return f.books[i].BookItems[j], nil
			}
		}
	}
	return models.BookItem{}, client.ErrNotFound
}

func (f *fakeAPI) ListReaders(ctx context.Context) ([]models.Reader, error) {
	if err := f.hit("ListReaders"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSlice(f.readers), nil
}

func (f *fakeAPI) CreateReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	if err := f.hit("CreateReader"); err != nil {
		return models.Reader{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.readers = append(f.readers, r)
	return r, nil
}

func (f *fakeAPI) UpdateReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	if err := f.hit("UpdateReader"); err != nil {
		return models.Reader{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readers = upsert(f.readers, r, func(x models.Reader) int64 { return x.ID })
	return r, nil
}

func (f *fakeAPI) DeleteReader(ctx context.Context, id int64) error {
	if err := f.hit("DeleteReader"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readers = remove(f.readers, func(x models.Reader) bool { return x.ID == id })
	return nil
}

func (f *fakeAPI) ListBorrows(ctx context.Context) ([]models.BorrowRecord, error) {
	if err := f.hit("ListBorrows"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneBorrows(f.borrows), nil
}

func (f *fakeAPI) setItem(bookID, itemID int64, status models.CopyStatus) {
	if b := f.book(bookID); b != nil {
		setItemStatus(b, itemID, status)
	}
}

func (f *fakeAPI) adjustReader(id int64, delta int) {
	for i := range f.readers {
		if f.readers[i].ID == id {
			f.readers[i].BorrowedCount += delta
		}
	}
}

func (f *fakeAPI) Borrow(ctx context.Context, req models.BorrowRequest) (models.BorrowRecord, error) {
	if err := f.hit("Borrow"); err != nil {
		return models.BorrowRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.book(req.BookID)
	if b == nil {
		return models.BorrowRecord{}, client.ErrNotFound
	}
	b.BorrowTimes++
	setItemStatus(b, req.ItemID, models.CopyBorrowed)
	f.adjustReader(req.ReaderID, 1)
	now := time.Now()
	rec := models.BorrowRecord{
		ID: f.id(), BookID: req.BookID, ReaderID: req.ReaderID, ItemID: req.ItemID,
		BorrowDate: models.DateOf(now), DueDate: models.DateOf(now.AddDate(0, 0, 30)),
		Status: models.BorrowActive, BookTitle: b.Title,
	}
	f.borrows = append(f.borrows, rec)
	return rec, nil
}

func (f *fakeAPI) Return(ctx context.Context, id int64) (models.BorrowRecord, error) {
	if err := f.hit("Return"); err != nil {
		return models.BorrowRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.borrows {
		if f.borrows[i].ID == id {
			r := &f.borrows[i]
			r.Status = models.BorrowReturned
			d := models.DateOf(time.Now())
			r.ReturnDate = &d
			f.setItem(r.BookID, r.ItemID, models.CopyAvailable)
			f.adjustReader(r.ReaderID, -1)
			return cloneBorrow(*r), nil
		}
	}
	return models.BorrowRecord{}, client.ErrNotFound
}

func (f *fakeAPI) Renew(ctx context.Context, id int64) (models.BorrowRecord, error) {
	if err := f.hit("Renew"); err != nil {
		return models.BorrowRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.borrows {
		if f.borrows[i].ID == id {
			f.borrows[i].DueDate = models.Date{Time: f.borrows[i].DueDate.AddDate(0, 0, 30)}
			return cloneBorrow(f.borrows[i]), nil
		}
	}
	return models.BorrowRecord{}, client.ErrNotFound
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := f.hit("ListCategories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSlice(f.cats), nil
}

func (f *fakeAPI) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	if err := f.hit("GetCategory"); err != nil {
		return models.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cats {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, client.ErrNotFound
}

func (f *fakeAPI) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if err := f.hit("CreateCategory"); err != nil {
		return models.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.cats = append(f.cats, c)
	return c, nil
}

func (f *fakeAPI) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if err := f.hit("UpdateCategory"); err != nil {
		return models.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cats = upsert(f.cats, c, func(x models.Category) int64 { return x.ID })
	return c, nil
}

func (f *fakeAPI) DeleteCategory(ctx context.Context, id int64) error {
	if err := f.hit("DeleteCategory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cats = remove(f.cats, func(x models.Category) bool { return x.ID == id })
	return nil
}

type loggedIn bool

func (l loggedIn) LoggedIn() bool { return bool(l) }

// seedLibrary fills api with a small library:
//
//	book 1 "Go" with copies 11, 12 available
//	book 2 "Rust" with copy 21 on loan (record 100, reader 1)
//	reader 1 student (1/3), reader 2 teacher at limit (5/5)
func seedLibrary(api *fakeAPI) {
	api.cats = []models.Category{{ID: 1, Name: "Programming"}}
	api.books = []models.Book{
		{ID: 1, Title: "Go", Author: "Pike", CategoryID: 1, BorrowTimes: 4, BookItems: []models.BookItem{
			{ID: 11, BookID: 1, Status: models.CopyAvailable},
			{ID: 12, BookID: 1, Status: models.CopyAvailable},
		}},
		{ID: 2, Title: "Rust", Author: "Klabnik", Category: "Systems", BorrowTimes: 9, BookItems: []models.BookItem{
			{ID: 21, BookID: 2, Status: models.CopyBorrowed},
		}},
	}
	api.readers = []models.Reader{
		{ID: 1, Name: "Amy", ReaderType: models.ReaderStudent, BorrowLimit: 3, BorrowedCount: 1},
		{ID: 2, Name: "Bob", ReaderType: models.ReaderTeacher, BorrowLimit: 5, BorrowedCount: 5},
	}
	api.borrows = []models.BorrowRecord{
		{ID: 100, BookID: 2, ReaderID: 1, ItemID: 21, Status: models.BorrowActive,
			BorrowDate: models.DateOf(time.Now()), DueDate: models.DateOf(time.Now().AddDate(0, 0, 30))},
	}
}

func newLoadedStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	st := NewStore(api, loggedIn(true), logging.Discard())
	require.NoError(t, st.LoadAll(context.Background()))
	return st
}

func newRepo(t *testing.T) (*metadata.SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	repo, db, err := metadata.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repo, path
}
