// Package clock keeps every date decision in one civil timezone.
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // the draw zone must resolve even on hosts without zoneinfo
)

// DefaultZone is the civil timezone the draws are scheduled in.
const DefaultZone = "Europe/Dublin"

// Draws before this civil hour are afternoon draws.
const eveningStartHour = 18

// DrawType labels a draw by the part of the day it happens in.
type DrawType string

const (
	Afternoon DrawType = "Afternoon"
	Evening   DrawType = "Evening"
)

// Civil is an instant decomposed in the clock's zone.
type Civil struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// Date returns the YYYY-MM-DD key of the civil date.
func (c Civil) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}

// Clock reads the current time and decomposes instants in a fixed zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the named IANA zone.
func New(zone string) (*Clock, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// WithNow returns a copy of the clock that reads time from now.
// Tests use it to pin the wall clock.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

// Location returns the clock's zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the clock's zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// ToCivil decomposes t in the clock's zone.
func (c *Clock) ToCivil(t time.Time) Civil {
	lt := t.In(c.loc)
	return Civil{
		Year:   lt.Year(),
		Month:  lt.Month(),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}
}

// CivilDate returns the YYYY-MM-DD civil date of t.
func (c *Clock) CivilDate(t time.Time) string {
	return c.ToCivil(t).Date()
}

// Today returns the current civil date.
func (c *Clock) Today() string {
	return c.CivilDate(c.Now())
}

// HasHourPassed reports whether the current civil hour is at or past hour.
// It compares decomposed civil hours, so it stays right across DST changes.
func (c *Clock) HasHourPassed(hour int) bool {
	return c.ToCivil(c.Now()).Hour >= hour
}

// DrawType classifies t as an afternoon or evening draw.
func (c *Clock) DrawType(t time.Time) DrawType {
	if c.ToCivil(t).Hour < eveningStartHour {
		return Afternoon
	}
	return Evening
}

// NextOccurrence returns the next instant at which the civil clock reads
// hour:00. If that moment is already past today, it is tomorrow's.
func (c *Clock) NextOccurrence(hour int) time.Time {
	now := c.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, c.loc)
	if !target.After(now) {
		target = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, c.loc)
	}
	return target
}
