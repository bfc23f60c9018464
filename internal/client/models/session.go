package models

import "slices"

// Role selects which console pages a user may reach.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleReader:
		return Role(s), true
	}
	return "", false
}

// Page is a console view.
type Page string

const (
	PageDashboard   Page = "dashboard"
	PageBooks       Page = "books"
	PageReaders     Page = "readers"
	PageBorrow      Page = "borrow"
	PageCategories  Page = "categories"
	PageItems       Page = "items"
	PageStatistics  Page = "statistics"
	PageMyBorrows   Page = "my-borrows"
	PageBrowseBooks Page = "browse-books"
)

var (
	adminPages = []Page{
		PageDashboard, PageBooks, PageReaders, PageBorrow,
		PageCategories, PageItems, PageStatistics,
	}
	readerPages = []Page{PageDashboard, PageMyBorrows, PageBrowseBooks}
)

// Pages lists what role may open.
func Pages(role Role) []Page {
	if role == RoleReader {
		return slices.Clone(readerPages)
	}
	return slices.Clone(adminPages)
}

// Allowed reports whether role may open p.
func Allowed(role Role, p Page) bool {
	if role == RoleReader {
		return slices.Contains(readerPages, p)
	}
	return slices.Contains(adminPages, p)
}

// Session is what survives a restart of the console.
type Session struct {
	LoggedIn bool    `json:"isLoggedIn"`
	Username string  `json:"username,omitempty"`
	Role     Role    `json:"userRole,omitempty"`
	Reader   *Reader `json:"readerInfo,omitempty"`
}
