package services

import "errors"

// Precondition failures. They are detected locally and never reach the
// server.
var (
	ErrNotLoggedIn             = errors.New("not logged in")
	ErrUnknownRole             = errors.New("server returned no usable role")
	ErrBorrowLimitReached      = errors.New("reader has reached the borrow limit")
	ErrNoAvailableCopy         = errors.New("no copy of this book is available")
	ErrCopyNotAvailable        = errors.New("the selected copy is not available")
	ErrCopyOnLoan              = errors.New("the copy is on loan")
	ErrBookNotFound            = errors.New("book not found")
	ErrReaderNotFound          = errors.New("reader not found")
	ErrCopyNotFound            = errors.New("copy not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrRecordNotFound          = errors.New("borrow record not found")
	ErrRecordNotActive         = errors.New("borrow record is already returned")
	ErrRenewOverdue            = errors.New("overdue loans cannot be renewed")
	ErrBookHasActiveLoans      = errors.New("book has copies on loan")
	ErrReaderHasActiveLoans    = errors.New("reader still has books on loan")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrDiscardExceedsAvailable = errors.New("cannot discard more copies than are available")
	ErrValidation              = errors.New("invalid input")
)

// ErrInvalidCredentials is returned when the server rejects a login.
var ErrInvalidCredentials = errors.New("invalid username or password")
