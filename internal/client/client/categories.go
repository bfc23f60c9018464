package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	return list[models.Category](ctx, c, "/categories")
}

func (c *HTTPClient) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	var cat models.Category
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, &cat)
	return cat, err
}

func (c *HTTPClient) CreateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, http.MethodPost, "/categories", cat, &out)
	return out, err
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", cat.ID), cat, &out)
	return out, err
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
