package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (c *HTTPClient) ListReaders(ctx context.Context) ([]models.Reader, error) {
	return list[models.Reader](ctx, c, "/reader")
}

func (c *HTTPClient) CreateReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	var out models.Reader
	err := c.do(ctx, http.MethodPost, "/reader", r, &out)
	return out, err
}

func (c *HTTPClient) UpdateReader(ctx context.Context, r models.Reader) (models.Reader, error) {
	var out models.Reader
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reader/%d", r.ID), r, &out)
	return out, err
}

func (c *HTTPClient) DeleteReader(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reader/%d", id), nil, nil)
}
