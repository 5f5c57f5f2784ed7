package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar-date format.
const DateLayout = "2006-01-02"

// Sentinel bounds used when a filter side is absent.
const (
	FarPast   Date = "1900-01-01"
	FarFuture Date = "2100-12-31"
)

// Date is a plain calendar date kept in YYYY-MM-DD form. The zero value means
// "no date". Because the layout is fixed width, string comparison orders dates.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses s strictly as YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

func (d Date) Valid() bool {
	return d != ""
}

func (d Date) String() string {
	return string(d)
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	if !d.Valid() {
		return d
	}
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d < o }
func (d Date) After(o Date) bool  { return d > o }

// DaysUntil returns the signed number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// Display formats the date as "5 Mar 2024".
func (d Date) Display() string {
	if !d.Valid() {
		return ""
	}
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format("2 Jan 2006")
}

// Scan accepts DATE columns as returned by the mysql, postgres and sqlite drivers.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateOf(v)
	case []byte:
		return d.fromString(string(v))
	case string:
		return d.fromString(v)
	default:
		return fmt.Errorf("domain: cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) fromString(s string) error {
	if s == "" || s == "0000-00-00" || (len(s) >= 10 && s[:10] == "0000-00-00") {
		*d = ""
		return nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("domain: invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, nil
	}
	return string(d), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalText(text []byte) error {
	return d.fromString(string(text))
}

// Range is an inclusive [Start, End] window of calendar dates.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Unbounded admits every dated record.
var Unbounded = Range{Start: FarPast, End: FarFuture}

// Contains reports whether d falls inside the range. Absent dates never match,
// mirroring SQL's NULL BETWEEN semantics.
func (r Range) Contains(d Date) bool {
	return d.Valid() && d >= r.Start && d <= r.End
}

// Empty is true when no date can satisfy the range.
func (r Range) Empty() bool {
	return r.Start > r.End
}
