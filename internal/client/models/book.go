package models

import (
	"github.com/shopspring/decimal"
)

// CopyStatus is the lending state of a physical copy. The server vocabulary
// has grown over time, so unknown values are kept verbatim.
type CopyStatus string

const (
	CopyAvailable   CopyStatus = "available"
	CopyBorrowed    CopyStatus = "borrowed"
	CopyUnavailable CopyStatus = "unavailable"
	CopyDamaged     CopyStatus = "damaged"
	CopyLost        CopyStatus = "lost"
	CopyRepairing   CopyStatus = "repairing"
	CopyReserved    CopyStatus = "reserved"
	CopyInternal    CopyStatus = "internal"
)

var copyStatusLabels = map[CopyStatus]string{
	CopyAvailable:   "available",
	CopyBorrowed:    "on loan",
	CopyUnavailable: "unavailable",
	CopyDamaged:     "damaged",
	CopyLost:        "lost",
	CopyRepairing:   "in repair",
	CopyReserved:    "reserved",
	CopyInternal:    "internal use",
}

// CopyStatuses lists the known statuses in display order.
func CopyStatuses() []CopyStatus {
	return []CopyStatus{
		CopyAvailable, CopyBorrowed, CopyUnavailable, CopyDamaged,
		CopyLost, CopyRepairing, CopyReserved, CopyInternal,
	}
}

func (s CopyStatus) Known() bool {
	_, ok := copyStatusLabels[s]
	return ok
}

// Label is the human-readable status, "unknown" for unrecognised values.
func (s CopyStatus) Label() string {
	if l, ok := copyStatusLabels[s]; ok {
		return l
	}
	return "unknown"
}

// BookItem is one physical copy of a Book.
type BookItem struct {
	ID           int64           `json:"id,omitempty"`
	BookID       int64           `json:"bookId" validate:"required,gt=0"`
	Barcode      string          `json:"barcode" validate:"max=64"`
	Location     string          `json:"location" validate:"max=128"`
	Status       CopyStatus      `json:"status"`
	PriceAtEntry decimal.Decimal `json:"priceAtEntry"`
	EntryDate    Date            `json:"entryDate"`
	Notes        string          `json:"notes,omitempty"`
}

func (i BookItem) Available() bool {
	return i.Status == CopyAvailable
}

// Book is a catalog entry owning its physical copies.
type Book struct {
	ID          int64           `json:"id,omitempty"`
	Code        string          `json:"code,omitempty"`
	Title       string          `json:"title" validate:"required,max=255"`
	Author      string          `json:"author" validate:"required,max=255"`
	Publisher   string          `json:"publisher,omitempty" validate:"max=255"`
	ISBN        string          `json:"isbn,omitempty" validate:"omitempty,max=32"`
	CategoryID  int64           `json:"categoryId,omitempty"`
	Category    string          `json:"category,omitempty"`
	PublishDate Date            `json:"publishDate"`
	Price       decimal.Decimal `json:"price"`
	EntryDate   Date            `json:"entryDate"`
	BorrowTimes int             `json:"borrowTimes"`
	IsDeleted   int             `json:"isDeleted"`
	Description string          `json:"description,omitempty"`
	CoverURL    string          `json:"coverUrl,omitempty" validate:"omitempty,url"`
	BookItems   []BookItem      `json:"bookItems,omitempty"`
}

func (b Book) Deleted() bool {
	return b.IsDeleted == 1
}

// AvailableCount counts copies whose status is exactly "available".
func (b Book) AvailableCount() int {
	n := 0
	for _, it := range b.BookItems {
		if it.Available() {
			n++
		}
	}
	return n
}

// AvailableItems returns the lendable copies in server order.
func (b Book) AvailableItems() []BookItem {
	out := make([]BookItem, 0, len(b.BookItems))
	for _, it := range b.BookItems {
		if it.Available() {
			out = append(out, it)
		}
	}
	return out
}

// Item finds a copy by id.
func (b Book) Item(id int64) (BookItem, bool) {
	for _, it := range b.BookItems {
		if it.ID == id {
			return it, true
		}
	}
	return BookItem{}, false
}

// Clone returns a copy that shares no slices with b.
func (b Book) Clone() Book {
	if b.BookItems != nil {
		b.BookItems = append([]BookItem(nil), b.BookItems...)
	}
	return b
}
