package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BorrowStatus is the loan state as stored by the server.
type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "借出"
	BorrowReturned BorrowStatus = "已还"
	BorrowOverdue  BorrowStatus = "逾期"
)

var borrowAliases = map[string]BorrowStatus{
	"borrowed": BorrowActive,
	"returned": BorrowReturned,
	"overdue":  BorrowOverdue,
}

func (s BorrowStatus) Label() string {
	switch s {
	case BorrowActive:
		return "borrowed"
	case BorrowReturned:
		return "returned"
	case BorrowOverdue:
		return "overdue"
	}
	return "unknown"
}

// IsActive is true while the copy is still out.
func (s BorrowStatus) IsActive() bool {
	return s == BorrowActive || s == BorrowOverdue
}

func (s *BorrowStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if alias, ok := borrowAliases[raw]; ok {
		*s = alias
		return nil
	}
	*s = BorrowStatus(raw)
	return nil
}

// BorrowRecord is a single loan of one copy to one reader.
type BorrowRecord struct {
	ID          int64           `json:"id"`
	BookID      int64           `json:"bookId"`
	ReaderID    int64           `json:"readerId"`
	ItemID      int64           `json:"itemId,omitempty"`
	BorrowDate  Date            `json:"borrowDate"`
	DueDate     Date            `json:"dueDate"`
	ReturnDate  *Date           `json:"returnDate"`
	OverdueFine decimal.Decimal `json:"overdueFine"`
	Status      BorrowStatus    `json:"status"`
	BookTitle   string          `json:"bookTitle,omitempty"`
}

func (r BorrowRecord) IsActive() bool {
	return r.Status.IsActive()
}

// IsOverdue is true when the server marked the loan overdue, or the loan is
// still out and its due date lies before now's calendar day.
func (r BorrowRecord) IsOverdue(now time.Time) bool {
	if r.Status == BorrowOverdue {
		return true
	}
	if r.Status != BorrowActive || r.DueDate.IsZero() {
		return false
	}
	return r.DueDate.Before(DateOf(now).Time)
}

// BorrowRequest is the body of POST /borrow.
type BorrowRequest struct {
	BookID   int64 `json:"bookId" validate:"required,gt=0"`
	ReaderID int64 `json:"readerId" validate:"required,gt=0"`
	ItemID   int64 `json:"itemId" validate:"required,gt=0"`
}
