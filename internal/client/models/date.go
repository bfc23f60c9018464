package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format for dates sent to the server.
const DateLayout = time.DateOnly

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// Date is a calendar date. The zero value encodes as null.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate accepts the same layouts as UnmarshalJSON.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unsupported date %q", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts null, "YYYY-MM-DD", RFC 3339 timestamps,
// "YYYY-MM-DD HH:MM:SS" and epoch milliseconds.
func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}

	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("unsupported date %s", b)
		}
		*d = Date{Time: time.UnixMilli(ms)}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
