package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
)

func (c *HTTPClient) ListBorrows(ctx context.Context) ([]models.BorrowRecord, error) {
	return list[models.BorrowRecord](ctx, c, "/borrow")
}

func (c *HTTPClient) Borrow(ctx context.Context, req models.BorrowRequest) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := c.do(ctx, http.MethodPost, "/borrow", req, &rec)
	return rec, err
}

func (c *HTTPClient) Return(ctx context.Context, recordID int64) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/borrow/%d/return", recordID), nil, &rec)
	return rec, err
}

func (c *HTTPClient) Renew(ctx context.Context, recordID int64) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/borrow/%d/renew", recordID), nil, &rec)
	return rec, err
}
