package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

// TokenSource supplies the bearer token for outbound calls. An empty token
// means the request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// LoginResult is the data of a successful POST /login.
type LoginResult struct {
	Token string          `json:"token"`
	Role  string          `json:"role"`
	User  json.RawMessage `json:"user"`
}

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
}

type BookAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	CreateBook(ctx context.Context, b models.Book) (models.Book, error)
	UpdateBook(ctx context.Context, b models.Book) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type BookItemAPI interface {
	ListBookItems(ctx context.Context) ([]models.BookItem, error)
	GetBookItem(ctx context.Context, id int64) (models.BookItem, error)
	CreateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error)
	UpdateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error)
	DeleteBookItem(ctx context.Context, id int64) error
	PurchaseCopies(ctx context.Context, req models.PurchaseRequest) ([]models.BookItem, error)
	DiscardCopies(ctx context.Context, req models.DiscardRequest) error
	SetBookItemStatus(ctx context.Context, id int64, status models.CopyStatus) (models.BookItem, error)
}

type ReaderAPI interface {
	ListReaders(ctx context.Context) ([]models.Reader, error)
	CreateReader(ctx context.Context, r models.Reader) (models.Reader, error)
	UpdateReader(ctx context.Context, r models.Reader) (models.Reader, error)
	DeleteReader(ctx context.Context, id int64) error
}

type BorrowAPI interface {
	ListBorrows(ctx context.Context) ([]models.BorrowRecord, error)
	Borrow(ctx context.Context, req models.BorrowRequest) (models.BorrowRecord, error)
	Return(ctx context.Context, recordID int64) (models.BorrowRecord, error)
	Renew(ctx context.Context, recordID int64) (models.BorrowRecord, error)
}

type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Client is the full REST surface the console uses.
type Client interface {
	AuthAPI
	BookAPI
	BookItemAPI
	ReaderAPI
	BorrowAPI
	CategoryAPI
}

var _ Client = (*HTTPClient)(nil)
