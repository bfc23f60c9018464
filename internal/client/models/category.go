package models

// Category groups books; Book.CategoryID references it.
type Category struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name" validate:"required,max=64"`
	Code      string `json:"code,omitempty" validate:"max=32"`
	CreatedAt Date   `json:"createdAt"`
	UpdatedAt Date   `json:"updatedAt"`
}

// PurchaseRequest adds Quantity new copies to a book.
type PurchaseRequest struct {
	BookID   int64  `json:"bookId" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	Supplier string `json:"supplier,omitempty" validate:"max=128"`
}

// DiscardRequest removes Quantity available copies from a book.
type DiscardRequest struct {
	BookID   int64 `json:"bookId" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

// StatusRequest is the body of PUT /bookitems/status/{id}.
type StatusRequest struct {
	Status CopyStatus `json:"status" validate:"required"`
}
