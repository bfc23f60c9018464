package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (c *HTTPClient) ListBooks(ctx context.Context) ([]models.Book, error) {
	return list[models.Book](ctx, c, "/book")
}

func (c *HTTPClient) CreateBook(ctx context.Context, b models.Book) (models.Book, error) {
	var out models.Book
	err := c.do(ctx, http.MethodPost, "/book", b, &out)
	return out, err
}

func (c *HTTPClient) UpdateBook(ctx context.Context, b models.Book) (models.Book, error) {
	var out models.Book
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/book/%d", b.ID), b, &out)
	return out, err
}

func (c *HTTPClient) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/book/%d", id), nil, nil)
}
