package services

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/shopspring/decimal"
)

// Fallback labels used when a reference cannot be resolved.
const (
	Uncategorized = "uncategorized"
	Unknown       = "unknown"
)

// Low stock means fewer than LowStockThreshold available copies (but some).
const LowStockThreshold = 3

// Summary holds the dashboard totals. Soft-deleted books are not counted.
type Summary struct {
	Books            int             `json:"books"`
	TotalCopies      int             `json:"totalCopies"`
	AvailableCopies  int             `json:"availableCopies"`
	Readers          int             `json:"readers"`
	ActiveReaders    int             `json:"activeReaders"`
	ActiveLoans      int             `json:"activeLoans"`
	OverdueLoans     int             `json:"overdueLoans"`
	OutstandingFines decimal.Decimal `json:"outstandingFines"`
}

// Summarize computes the dashboard totals. A loan counts as overdue only
// once the server has marked it so; the due date is not consulted.
func Summarize(s Snapshot) Summary {
	var sum Summary
	for _, b := range s.Books {
		if b.Deleted() {
			continue
		}
		sum.Books++
		sum.TotalCopies += len(b.BookItems)
		sum.AvailableCopies += b.AvailableCount()
	}
	sum.Readers = len(s.Readers)
	for _, r := range s.Borrows {
		if !r.IsActive() {
			continue
		}
		sum.ActiveLoans++
		if r.Status == models.BorrowOverdue {
			sum.OverdueLoans++
			sum.OutstandingFines = sum.OutstandingFines.Add(r.OverdueFine)
		}
	}
	sum.ActiveReaders = ActiveReaderCount(s.Borrows)
	return sum
}

// TopBorrowed returns up to n books by descending borrow count. Ties keep
// their input order; books is not modified.
func TopBorrowed(books []models.Book, n int) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if !b.Deleted() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BorrowTimes > out[j].BorrowTimes })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type CategoryCount struct {
	Name   string `json:"name"`
	Copies int    `json:"copies"`
}

// CategoryName resolves b's category: by id, then the free-text name, then
// Uncategorized.
func CategoryName(b models.Book, byID map[int64]string) string {
	if name, ok := byID[b.CategoryID]; ok && b.CategoryID != 0 {
		return name
	}
	if b.Category != "" {
		return b.Category
	}
	return Uncategorized
}

func categoryIndex(cats []models.Category) map[int64]string {
	m := make(map[int64]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Name
	}
	return m
}

// CategoryDistribution counts copies per resolved category, largest first.
func CategoryDistribution(books []models.Book, cats []models.Category) []CategoryCount {
	byID := categoryIndex(cats)
	counts := map[string]int{}
	for _, b := range books {
		if b.Deleted() {
			continue
		}
		counts[CategoryName(b, byID)] += len(b.BookItems)
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Copies: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Copies != out[j].Copies {
			return out[i].Copies > out[j].Copies
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Activity is a loan with its references resolved for display.
type Activity struct {
	Record     models.BorrowRecord `json:"record"`
	BookTitle  string              `json:"bookTitle"`
	ReaderName string              `json:"readerName"`
}

type resolver struct {
	titles  map[int64]string
	readers map[int64]string
}

func newResolver(books []models.Book, readers []models.Reader) resolver {
	r := resolver{titles: make(map[int64]string, len(books)), readers: make(map[int64]string, len(readers))}
	for _, b := range books {
		r.titles[b.ID] = b.Title
	}
	for _, rd := range readers {
		r.readers[rd.ID] = rd.Name
	}
	return r
}

func (r resolver) activity(rec models.BorrowRecord) Activity {
	a := Activity{Record: rec, BookTitle: Unknown, ReaderName: Unknown}
	if t, ok := r.titles[rec.BookID]; ok && t != "" {
		a.BookTitle = t
	} else if rec.BookTitle != "" {
		a.BookTitle = rec.BookTitle
	}
	if n, ok := r.readers[rec.ReaderID]; ok && n != "" {
		a.ReaderName = n
	}
	return a
}

// RecentActivity returns the last n active loans, most recent first.
func RecentActivity(records []models.BorrowRecord, books []models.Book, readers []models.Reader, n int) []Activity {
	res := newResolver(books, readers)
	active := make([]models.BorrowRecord, 0, len(records))
	for _, r := range records {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	if n >= 0 && len(active) > n {
		active = active[len(active)-n:]
	}
	out := make([]Activity, 0, len(active))
	for i := len(active) - 1; i >= 0; i-- {
		out = append(out, res.activity(active[i]))
	}
	return out
}

// OverdueReport lists loans the server marked overdue, oldest due date
// first, and the sum of their fines.
func OverdueReport(s Snapshot) ([]Activity, decimal.Decimal) {
	res := newResolver(s.Books, s.Readers)
	var (
		out   []Activity
		total decimal.Decimal
	)
	for _, r := range s.Borrows {
		if r.Status == models.BorrowOverdue {
			out = append(out, res.activity(r))
			total = total.Add(r.OverdueFine)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Record.DueDate.Before(out[j].Record.DueDate.Time)
	})
	return out, total
}

type StockLine struct {
	BookID    int64  `json:"bookId"`
	Title     string `json:"title"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
}

// StockAlerts splits books into low stock (0 < available < 3) and out of
// stock (available == 0).
func StockAlerts(books []models.Book) (low, out []StockLine) {
	for _, b := range books {
		if b.Deleted() {
			continue
		}
		line := StockLine{BookID: b.ID, Title: b.Title, Available: b.AvailableCount(), Total: len(b.BookItems)}
		switch {
		case line.Available == 0:
			out = append(out, line)
		case line.Available < LowStockThreshold:
			low = append(low, line)
		}
	}
	return low, out
}

// ActiveReaderCount counts distinct readers holding at least one loan.
func ActiveReaderCount(records []models.BorrowRecord) int {
	seen := map[int64]struct{}{}
	for _, r := range records {
		if r.IsActive() {
			seen[r.ReaderID] = struct{}{}
		}
	}
	return len(seen)
}

// RecordQuery filters borrow records. Zero fields match everything.
type RecordQuery struct {
	Text   string
	From   models.Date
	To     models.Date
	Status models.BorrowStatus
}

// SearchRecords matches Text against the book title or the reader name
// (case-insensitive) and keeps borrow dates within [From, To].
func SearchRecords(s Snapshot, q RecordQuery) []Activity {
	res := newResolver(s.Books, s.Readers)
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var out []Activity
	for _, r := range s.Borrows {
		a := res.activity(r)
		if text != "" &&
			!strings.Contains(strings.ToLower(a.BookTitle), text) &&
			!strings.Contains(strings.ToLower(a.ReaderName), text) {
			continue
		}
		if !q.From.IsZero() && r.BorrowDate.Before(q.From.Time) {
			continue
		}
		if !q.To.IsZero() && r.BorrowDate.After(q.To.Time) {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		out = append(out, a)
	}
	return out
}

// BrowseBooks is the reader-facing catalog: soft-deleted books are hidden,
// text matches title, author or ISBN, categoryID 0 means any.
func BrowseBooks(books []models.Book, query string, categoryID int64) []models.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Book
	for _, b := range books {
		if b.Deleted() {
			continue
		}
		if categoryID != 0 && b.CategoryID != categoryID {
			continue
		}
		if q != "" && !slices.ContainsFunc([]string{b.Title, b.Author, b.ISBN}, func(f string) bool {
			return strings.Contains(strings.ToLower(f), q)
		}) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ReaderOverview is the self-service view of one reader.
type ReaderOverview struct {
	Reader    models.Reader   `json:"reader"`
	Active    []Activity      `json:"active"`
	Overdue   []Activity      `json:"overdue"`
	History   []Activity      `json:"history"`
	Remaining int             `json:"remaining"`
	Fines     decimal.Decimal `json:"fines"`
}

func BuildReaderOverview(s Snapshot, reader models.Reader) ReaderOverview {
	res := newResolver(s.Books, s.Readers)
	ov := ReaderOverview{Reader: reader}
	for _, r := range s.Borrows {
		if r.ReaderID != reader.ID {
			continue
		}
		a := res.activity(r)
		switch {
		case r.Status == models.BorrowOverdue:
			ov.Overdue = append(ov.Overdue, a)
			ov.Fines = ov.Fines.Add(r.OverdueFine)
		case r.IsActive():
			ov.Active = append(ov.Active, a)
		default:
			ov.History = append(ov.History, a)
			ov.Fines = ov.Fines.Add(r.OverdueFine)
		}
	}
	ov.Remaining = max(reader.BorrowLimit-reader.BorrowedCount, 0)
	return ov
}

// Report is the exported statistics document.
type Report struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Summary      Summary         `json:"summary"`
	TopBorrowed  []models.Book   `json:"topBorrowed"`
	Categories   []CategoryCount `json:"categories"`
	Recent       []Activity      `json:"recent"`
	Overdue      []Activity      `json:"overdue"`
	OverdueFines decimal.Decimal `json:"overdueFines"`
	LowStock     []StockLine     `json:"lowStock"`
	OutOfStock   []StockLine     `json:"outOfStock"`
}

func BuildReport(s Snapshot, now time.Time) Report {
	overdue, fines := OverdueReport(s)
	low, out := StockAlerts(s.Books)
	top := TopBorrowed(s.Books, 10)
	for i := range top {
		top[i].BookItems = nil
	}
	return Report{
		GeneratedAt:  now,
		Summary:      Summarize(s),
		TopBorrowed:  top,
		Categories:   CategoryDistribution(s.Books, s.Categories),
		Recent:       RecentActivity(s.Borrows, s.Books, s.Readers, 5),
		Overdue:      overdue,
		OverdueFines: fines,
		LowStock:     low,
		OutOfStock:   out,
	}
}
