package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	want := NewDate(2024, time.March, 5)

	tests := []struct {
		name string
		in   string
		zero bool
	}{
		{name: "date only", in: `"2024-03-05"`},
		{name: "date time", in: `"2024-03-05 00:00:00"`},
		{name: "iso local", in: `"2024-03-05T00:00:00"`},
		{name: "epoch ms", in: jsonNumber(want.UnixMilli())},
		{name: "null", in: `null`, zero: true},
		{name: "empty string", in: `""`, zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			if tt.zero {
				assert.True(t, d.IsZero())
				return
			}
			assert.True(t, want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestDate_RFC3339AndErrors(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T10:20:30Z"`), &d))
	assert.Equal(t, 2024, d.UTC().Year())

	require.Error(t, json.Unmarshal([]byte(`"05/03/2024"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.January, 9))
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-09"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))

	assert.Equal(t, "-", Date{}.String())
}

func TestCopyStatus_UnknownIsLabelledNotRejected(t *testing.T) {
	var item BookItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"bookId":2,"status":"quarantined"}`), &item))

	assert.Equal(t, CopyStatus("quarantined"), item.Status)
	assert.False(t, item.Status.Known())
	assert.Equal(t, "unknown", item.Status.Label())
	assert.False(t, item.Available())

	for _, s := range CopyStatuses() {
		assert.True(t, s.Known(), s)
		assert.NotEqual(t, "unknown", s.Label(), s)
	}
}

func TestBook_AvailableCount(t *testing.T) {
	b := Book{BookItems: []BookItem{
		{ID: 1, Status: CopyAvailable},
		{ID: 2, Status: CopyBorrowed},
		{ID: 3, Status: CopyReserved},
		{ID: 4, Status: CopyAvailable},
		{ID: 5, Status: "weird"},
	}}

	assert.Equal(t, 2, b.AvailableCount())

	ids := []int64{}
	for _, it := range b.AvailableItems() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{1, 4}, ids)

	it, ok := b.Item(3)
	require.True(t, ok)
	assert.Equal(t, CopyReserved, it.Status)
	_, ok = b.Item(99)
	assert.False(t, ok)
}

func TestBook_CloneDoesNotShareItems(t *testing.T) {
	b := Book{ID: 1, BookItems: []BookItem{{ID: 1, Status: CopyAvailable}}}
	c := b.Clone()
	c.BookItems[0].Status = CopyLost

	assert.Equal(t, CopyAvailable, b.BookItems[0].Status)
}

func TestBook_DecodeServerShape(t *testing.T) {
	raw := `{
		"id": 7, "code": "B0007", "title": "Go", "author": "Pike", "isbn": "978-1",
		"categoryId": 3, "category": "Programming", "publishDate": "2020-01-02",
		"price": 59.9, "entryDate": "2023-09-01 08:00:00", "borrowTimes": 12, "isDeleted": 0,
		"coverUrl": "http://img/go.png",
		"bookItems": [{"id": 70, "bookId": 7, "barcode": "BC70", "status": "available", "priceAtEntry": "59.90"}]
	}`

	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.Equal(t, int64(3), b.CategoryID)
	assert.Equal(t, 12, b.BorrowTimes)
	assert.False(t, b.Deleted())
	assert.True(t, decimal.RequireFromString("59.9").Equal(b.Price))
	assert.True(t, decimal.RequireFromString("59.90").Equal(b.BookItems[0].PriceAtEntry))
	assert.Equal(t, "2020-01-02", b.PublishDate.String())
	assert.Equal(t, 1, b.AvailableCount())
}

func TestReaderType_Limits(t *testing.T) {
	assert.Equal(t, 3, DefaultBorrowLimit(ReaderStudent))
	assert.Equal(t, 5, DefaultBorrowLimit(ReaderTeacher))
	assert.Equal(t, 3, DefaultBorrowLimit("visitor"))

	rt, ok := ParseReaderType("teacher")
	assert.True(t, ok)
	assert.Equal(t, ReaderTeacher, rt)
	_, ok = ParseReaderType("alien")
	assert.False(t, ok)

	assert.Equal(t, "student", ReaderStudent.Label())
	assert.Equal(t, "unknown", ReaderType("x").Label())
}

func TestReader_CanBorrow(t *testing.T) {
	assert.True(t, Reader{BorrowLimit: 3, BorrowedCount: 2}.CanBorrow())
	assert.False(t, Reader{BorrowLimit: 3, BorrowedCount: 3}.CanBorrow())
	assert.False(t, Reader{BorrowLimit: 0}.CanBorrow())
}

func TestBorrowStatus_DecodeAliases(t *testing.T) {
	tests := map[string]BorrowStatus{
		`"借出"`:       BorrowActive,
		`"borrowed"`: BorrowActive,
		`"已还"`:       BorrowReturned,
		`"returned"`: BorrowReturned,
		`"逾期"`:       BorrowOverdue,
		`"overdue"`:  BorrowOverdue,
		`"lost"`:     BorrowStatus("lost"),
	}
	for in, want := range tests {
		var s BorrowStatus
		require.NoError(t, json.Unmarshal([]byte(in), &s))
		assert.Equal(t, want, s, in)
	}

	assert.True(t, BorrowActive.IsActive())
	assert.True(t, BorrowOverdue.IsActive())
	assert.False(t, BorrowReturned.IsActive())
	assert.Equal(t, "unknown", BorrowStatus("lost").Label())
}

func TestBorrowRecord_IsOverdue(t *testing.T) {
	now := time.Date(2024, time.May, 10, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		rec  BorrowRecord
		want bool
	}{
		{name: "server overdue", rec: BorrowRecord{Status: BorrowOverdue}, want: true},
		{name: "due yesterday", rec: BorrowRecord{Status: BorrowActive, DueDate: NewDate(2024, time.May, 9)}, want: true},
		{name: "due today", rec: BorrowRecord{Status: BorrowActive, DueDate: NewDate(2024, time.May, 10)}, want: false},
		{name: "no due date", rec: BorrowRecord{Status: BorrowActive}, want: false},
		{name: "returned late", rec: BorrowRecord{Status: BorrowReturned, DueDate: NewDate(2024, time.May, 1)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IsOverdue(now))
		})
	}
}

func TestBorrowRecord_Decode(t *testing.T) {
	raw := `{"id":1,"bookId":2,"readerId":3,"borrowDate":"2024-05-01","dueDate":"2024-05-31",
		"returnDate":null,"overdueFine":1.50,"status":"借出","bookTitle":"Go"}`

	var r BorrowRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	want := BorrowRecord{
		ID: 1, BookID: 2, ReaderID: 3,
		BorrowDate:  NewDate(2024, time.May, 1),
		DueDate:     NewDate(2024, time.May, 31),
		OverdueFine: decimal.RequireFromString("1.5"),
		Status:      BorrowActive,
		BookTitle:   "Go",
	}
	opts := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	dates := cmp.Comparer(func(a, b Date) bool { return a.Equal(b.Time) })
	if diff := cmp.Diff(want, r, opts, dates); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestRouting(t *testing.T) {
	for _, p := range Pages(RoleAdmin) {
		assert.True(t, Allowed(RoleAdmin, p), p)
	}
	assert.False(t, Allowed(RoleAdmin, PageMyBorrows))

	assert.True(t, Allowed(RoleReader, PageDashboard))
	assert.True(t, Allowed(RoleReader, PageMyBorrows))
	assert.True(t, Allowed(RoleReader, PageBrowseBooks))
	assert.False(t, Allowed(RoleReader, PageBooks))

	_, ok := ParseRole("root")
	assert.False(t, ok)
}

func TestSession_JSONShape(t *testing.T) {
	s := Session{LoggedIn: true, Username: "amy", Role: RoleReader, Reader: &Reader{ID: 4, Name: "Amy"}}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, true, m["isLoggedIn"])
	assert.Equal(t, "amy", m["username"])
	assert.Equal(t, "reader", m["userRole"])
	assert.Contains(t, m, "readerInfo")

	b, err = json.Marshal(Session{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"isLoggedIn":false}`, string(b))
}

func TestEnvelope(t *testing.T) {
	var e Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"code":200,"data":null,"msg":"ok"}`), &e))
	assert.True(t, e.OK())
	assert.True(t, e.Empty())

	require.NoError(t, json.Unmarshal([]byte(`{"code":500,"data":{"id":1},"msg":"boom"}`), &e))
	assert.False(t, e.OK())
	assert.False(t, e.Empty())
}
