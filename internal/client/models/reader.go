package models

// ReaderType decides the default borrow limit. Wire values are the ones the
// server stores.
type ReaderType string

const (
	ReaderStudent ReaderType = "学生"
	ReaderTeacher ReaderType = "教师"
)

// DefaultLimit applies to unknown reader types.
const DefaultLimit = 3

// ParseReaderType accepts the wire values and their English names.
func ParseReaderType(s string) (ReaderType, bool) {
	switch s {
	case string(ReaderStudent), "student":
		return ReaderStudent, true
	case string(ReaderTeacher), "teacher":
		return ReaderTeacher, true
	}
	return ReaderType(s), false
}

func (t ReaderType) Label() string {
	switch t {
	case ReaderStudent:
		return "student"
	case ReaderTeacher:
		return "teacher"
	}
	return "unknown"
}

// DefaultBorrowLimit is the limit assigned to a new reader of type t.
func DefaultBorrowLimit(t ReaderType) int {
	if t == ReaderTeacher {
		return 5
	}
	return DefaultLimit
}

// Reader is a library patron.
type Reader struct {
	ID            int64      `json:"id,omitempty"`
	Name          string     `json:"name" validate:"required,max=64"`
	Gender        string     `json:"gender,omitempty"`
	ClassDept     string     `json:"classDept,omitempty"`
	ReaderType    ReaderType `json:"readerType" validate:"required"`
	Contact       string     `json:"contact,omitempty" validate:"max=64"`
	BorrowLimit   int        `json:"borrowLimit" validate:"gte=0"`
	BorrowedCount int        `json:"borrowedCount" validate:"gte=0"`
	Username      string     `json:"username,omitempty"`
	Password      string     `json:"password,omitempty"`
}

// CanBorrow reports whether one more loan fits under the limit.
func (r Reader) CanBorrow() bool {
	return r.BorrowedCount < r.BorrowLimit
}
