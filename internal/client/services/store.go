package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Collection names one of the four cached server collections.
type Collection int

const (
	Books Collection = iota
	Readers
	Borrows
	Categories
	collectionCount
)

func (c Collection) String() string {
	switch c {
	case Books:
		return "books"
	case Readers:
		return "readers"
	case Borrows:
		return "borrows"
	case Categories:
		return "categories"
	}
	return "unknown"
}

// Fetcher lists the collections the store caches.
type Fetcher interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListReaders(ctx context.Context) ([]models.Reader, error)
	ListBorrows(ctx context.Context) ([]models.BorrowRecord, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Snapshot is a point-in-time deep copy of the store.
type Snapshot struct {
	Books      []models.Book
	Readers    []models.Reader
	Borrows    []models.BorrowRecord
	Categories []models.Category
}

// Store is the canonical in-memory copy of the server collections for the
// logged-in session. Only confirmed server responses change it.
//
// Every collection carries a generation that is bumped when a fetch starts
// or a local patch is applied; a fetch finishing under an older generation
// is discarded, so a late response never overwrites newer state.
type Store struct {
	api     Fetcher
	session interface{ LoggedIn() bool }
	log     logging.Logger

	mu         sync.RWMutex
	books      []models.Book
	readers    []models.Reader
	borrows    []models.BorrowRecord
	categories []models.Category
	gen        [collectionCount]uint64
}

func NewStore(api Fetcher, session interface{ LoggedIn() bool }, log logging.Logger) *Store {
	return &Store{api: api, session: session, log: log}
}

func (s *Store) begin(c Collection) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[c]++
	return s.gen[c]
}

// LoadAll fetches all four collections concurrently. On any failure every
// collection is reset to empty and the first error is returned.
func (s *Store) LoadAll(ctx context.Context) error {
	if !s.session.LoggedIn() {
		return ErrNotLoggedIn
	}

	var gens [collectionCount]uint64
	for c := Collection(0); c < collectionCount; c++ {
		gens[c] = s.begin(c)
	}

	var (
		books      []models.Book
		readers    []models.Reader
		borrows    []models.BorrowRecord
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		books, err = s.api.ListBooks(gctx)
		return wrapFetch(Books, err)
	})
	g.Go(func() (err error) {
		readers, err = s.api.ListReaders(gctx)
		return wrapFetch(Readers, err)
	})
	g.Go(func() (err error) {
		borrows, err = s.api.ListBorrows(gctx)
		return wrapFetch(Borrows, err)
	})
	g.Go(func() (err error) {
		categories, err = s.api.ListCategories(gctx)
		return wrapFetch(Categories, err)
	})

	if err := g.Wait(); err != nil {
		s.Reset()
		s.log.Error(ctx, "loading collections failed", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[Books] == gens[Books] {
		s.books = nonNil(books)
	}
	if s.gen[Readers] == gens[Readers] {
		s.readers = nonNil(readers)
	}
	if s.gen[Borrows] == gens[Borrows] {
		s.borrows = withKnownBooks(borrows, s.books)
	}
	if s.gen[Categories] == gens[Categories] {
		s.categories = nonNil(categories)
	}

	s.log.Info(ctx, "collections loaded",
		"books", len(s.books), "readers", len(s.readers),
		"borrows", len(s.borrows), "categories", len(s.categories))
	return nil
}

func wrapFetch(c Collection, err error) error {
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c, err)
	}
	return nil
}

// Refresh re-fetches one collection and replaces it wholesale. A failed
// fetch leaves the cached collection untouched.
func (s *Store) Refresh(ctx context.Context, c Collection) error {
	gen := s.begin(c)

	var (
		books      []models.Book
		readers    []models.Reader
		borrows    []models.BorrowRecord
		categories []models.Category
		err        error
	)
	switch c {
	case Books:
		books, err = s.api.ListBooks(ctx)
	case Readers:
		readers, err = s.api.ListReaders(ctx)
	case Borrows:
		borrows, err = s.api.ListBorrows(ctx)
	case Categories:
		categories, err = s.api.ListCategories(ctx)
	default:
		return fmt.Errorf("refresh: unknown collection %d", c)
	}
	if err != nil {
		return wrapFetch(c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[c] != gen {
		s.log.Debug(ctx, "discarding stale refresh", "collection", c.String())
		return nil
	}
	switch c {
	case Books:
		s.books = nonNil(books)
	case Readers:
		s.readers = nonNil(readers)
	case Borrows:
		s.borrows = withKnownBooks(borrows, s.books)
	case Categories:
		s.categories = nonNil(categories)
	}
	return nil
}

func (s *Store) RefreshBooks(ctx context.Context) error      { return s.Refresh(ctx, Books) }
func (s *Store) RefreshReaders(ctx context.Context) error    { return s.Refresh(ctx, Readers) }
func (s *Store) RefreshBorrows(ctx context.Context) error    { return s.Refresh(ctx, Borrows) }
func (s *Store) RefreshCategories(ctx context.Context) error { return s.Refresh(ctx, Categories) }

// Reset empties every collection (logout, failed load).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.gen {
		s.gen[c]++
	}
	s.books = []models.Book{}
	s.readers = []models.Reader{}
	s.borrows = []models.BorrowRecord{}
	s.categories = []models.Category{}
}

// Snapshot returns deep copies of all collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Books:      cloneBooks(s.books),
		Readers:    cloneSlice(s.readers),
		Borrows:    cloneBorrows(s.borrows),
		Categories: cloneSlice(s.categories),
	}
}

func (s *Store) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBooks(s.books)
}

func (s *Store) Readers() []models.Reader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.readers)
}

func (s *Store) Borrows() []models.BorrowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBorrows(s.borrows)
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.categories)
}

func (s *Store) Book(id int64) (models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return models.Book{}, false
}

func (s *Store) Reader(id int64) (models.Reader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.readers {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reader{}, false
}

func (s *Store) Borrow(id int64) (models.BorrowRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.borrows {
		if r.ID == id {
			return cloneBorrow(r), true
		}
	}
	return models.BorrowRecord{}, false
}

func (s *Store) Category(id int64) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// ItemOwner finds the book holding copy itemID.
func (s *Store) ItemOwner(itemID int64) (models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if _, ok := b.Item(itemID); ok {
			return b.Clone(), true
		}
	}
	return models.Book{}, false
}

// patch applies fn under the write lock and bumps the generations of the
// collections it touches.
func (s *Store) patch(fn func(), touched ...Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range touched {
		s.gen[c]++
	}
	fn()
}

func (s *Store) upsertBook(b models.Book) {
	s.patch(func() { s.books = upsert(s.books, b, func(x models.Book) int64 { return x.ID }) }, Books)
}

func (s *Store) removeBook(id int64) {
	s.patch(func() {
		s.books = remove(s.books, func(x models.Book) bool { return x.ID == id })
		s.borrows = remove(s.borrows, func(x models.BorrowRecord) bool { return x.BookID == id })
	}, Books, Borrows)
}

func (s *Store) updateBook(id int64, fn func(*models.Book)) {
	s.patch(func() {
		for i := range s.books {
			if s.books[i].ID == id {
				s.books[i] = s.books[i].Clone()
				fn(&s.books[i])
				return
			}
		}
	}, Books)
}

func (s *Store) upsertReader(r models.Reader) {
	s.patch(func() { s.readers = upsert(s.readers, r, func(x models.Reader) int64 { return x.ID }) }, Readers)
}

func (s *Store) removeReader(id int64) {
	s.patch(func() { s.readers = remove(s.readers, func(x models.Reader) bool { return x.ID == id }) }, Readers)
}

func (s *Store) updateReader(id int64, fn func(*models.Reader)) {
	s.patch(func() {
		for i := range s.readers {
			if s.readers[i].ID == id {
				fn(&s.readers[i])
				return
			}
		}
	}, Readers)
}

func (s *Store) upsertBorrow(r models.BorrowRecord) {
	s.patch(func() { s.borrows = upsert(s.borrows, r, func(x models.BorrowRecord) int64 { return x.ID }) }, Borrows)
}

func (s *Store) upsertCategory(c models.Category) {
	s.patch(func() { s.categories = upsert(s.categories, c, func(x models.Category) int64 { return x.ID }) }, Categories)
}

func (s *Store) removeCategory(id int64) {
	s.patch(func() { s.categories = remove(s.categories, func(x models.Category) bool { return x.ID == id }) }, Categories)
}

// withKnownBooks drops records whose book is not in books.
func withKnownBooks(records []models.BorrowRecord, books []models.Book) []models.BorrowRecord {
	known := make(map[int64]struct{}, len(books))
	for _, b := range books {
		known[b.ID] = struct{}{}
	}
	out := make([]models.BorrowRecord, 0, len(records))
	for _, r := range records {
		if _, ok := known[r.BookID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func upsert[T any](xs []T, v T, id func(T) int64) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)
	for i := range out {
		if id(out[i]) == id(v) {
			out[i] = v
			return out
		}
	}
	return append(out, v)
}

func remove[T any](xs []T, match func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if !match(x) {
			out = append(out, x)
		}
	}
	return out
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

func cloneSlice[T any](xs []T) []T {
	return append(make([]T, 0, len(xs)), xs...)
}

func cloneBooks(xs []models.Book) []models.Book {
	out := make([]models.Book, len(xs))
	for i, b := range xs {
		out[i] = b.Clone()
	}
	return out
}

func cloneBorrow(r models.BorrowRecord) models.BorrowRecord {
	if r.ReturnDate != nil {
		d := *r.ReturnDate
		r.ReturnDate = &d
	}
	return r
}

func cloneBorrows(xs []models.BorrowRecord) []models.BorrowRecord {
	out := make([]models.BorrowRecord, len(xs))
	for i, r := range xs {
		out[i] = cloneBorrow(r)
	}
	return out
}
