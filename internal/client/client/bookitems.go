package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (c *HTTPClient) ListBookItems(ctx context.Context) ([]models.BookItem, error) {
	return list[models.BookItem](ctx, c, "/bookitems")
}

func (c *HTTPClient) GetBookItem(ctx context.Context, id int64) (models.BookItem, error) {
	var it models.BookItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookitems/%d", id), nil, &it)
	return it, err
}

func (c *HTTPClient) CreateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	var out models.BookItem
	err := c.do(ctx, http.MethodPost, "/bookitems", it, &out)
	return out, err
}

func (c *HTTPClient) UpdateBookItem(ctx context.Context, it models.BookItem) (models.BookItem, error) {
	var out models.BookItem
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/bookitems/%d", it.ID), it, &out)
	return out, err
}

func (c *HTTPClient) DeleteBookItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookitems/%d", id), nil, nil)
}

// PurchaseCopies uses the bulk endpoint with the book id in the body. The
// server answers with the created copies; a null data field is tolerated.
func (c *HTTPClient) PurchaseCopies(ctx context.Context, req models.PurchaseRequest) ([]models.BookItem, error) {
	var created []models.BookItem
	err := c.do(ctx, http.MethodPost, "/bookitems/purchase", req, &created)
	if errors.Is(err, ErrEmptyResponse) {
		return nil, nil
	}
	return created, err
}

func (c *HTTPClient) DiscardCopies(ctx context.Context, req models.DiscardRequest) error {
	return c.do(ctx, http.MethodPut, "/bookitems/discard", req, nil)
}

func (c *HTTPClient) SetBookItemStatus(ctx context.Context, id int64, status models.CopyStatus) (models.BookItem, error) {
	var out models.BookItem
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/bookitems/status/%d", id), models.StatusRequest{Status: status}, &out)
	if errors.Is(err, ErrEmptyResponse) {
		return models.BookItem{ID: id, Status: status}, nil
	}
	return out, err
}
