package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrMalformedSlot is returned for identifiers that are not YYYY-MM-DD-{1-12}{am|pm}.
var ErrMalformedSlot = errors.New("malformed slot identifier")

var slotPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(\d{1,2})(am|pm)$`)

// Slot is a decoded slot identifier: a civil date and a 24-hour hour.
type Slot struct {
	Date   string
	Hour24 int
}

// String re-encodes the slot as YYYY-MM-DD-{1-12}{am|pm}.
func (s Slot) String() string {
	hour12, meridiem := to12Hour(s.Hour24)
	return fmt.Sprintf("%s-%d%s", s.Date, hour12, meridiem)
}

// EncodeSlot returns the slot identifier of t in the clock's zone.
func (c *Clock) EncodeSlot(t time.Time) string {
	civil := c.ToCivil(t)
	return Slot{Date: civil.Date(), Hour24: civil.Hour}.String()
}

// DecodeSlot parses a slot identifier.
func DecodeSlot(id string) (Slot, error) {
	m := slotPattern.FindStringSubmatch(id)
	if m == nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedSlot, id)
	}

	if _, err := time.Parse(time.DateOnly, m[1]); err != nil {
		return Slot{}, fmt.Errorf("%w: %q has no such date", ErrMalformedSlot, id)
	}

	hour, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 {
		return Slot{}, fmt.Errorf("%w: %q hour out of range", ErrMalformedSlot, id)
	}

	return Slot{Date: m[1], Hour24: to24Hour(hour, m[3])}, nil
}

func to12Hour(hour24 int) (int, string) {
	meridiem := "am"
	if hour24 >= 12 {
		meridiem = "pm"
	}
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return hour12, meridiem
}

func to24Hour(hour12 int, meridiem string) int {
	switch {
	case meridiem == "am" && hour12 == 12:
		return 0
	case meridiem == "pm" && hour12 < 12:
		return hour12 + 12
	default:
		return hour12
	}
}
