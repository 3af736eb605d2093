// Package models defines the value types shared by the draft, the
// submission service and the catalog service.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayLayout is the server's date format (DD.MM.YYYY).
	DisplayLayout = "02.01.2006"
	// InputLayout is the form input format (YYYY-MM-DD).
	InputLayout = "2006-01-02"
)

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Display formats d as DD.MM.YYYY.
func (d Date) Display() string {
	return d.time().Format(DisplayLayout)
}

// Input formats d as YYYY-MM-DD.
func (d Date) Input() string {
	return d.time().Format(InputLayout)
}

func (d Date) String() string {
	return d.Input()
}

// ParseDate accepts either the display or the input layout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DisplayLayout, InputLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", s)
}

// UnmarshalJSON reads a display- or input-formatted string; null and ""
// leave d zero.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the display layout the server expects.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Display())
}
