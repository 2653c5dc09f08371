package clock

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func mustClock(t *testing.T) *Clock {
	t.Helper()
	c, err := New(DefaultZone)
	if err != nil {
		t.Fatalf("Failed to load clock: %v", err)
	}
	return c
}

func fixedAt(c *Clock, utc string) *Clock {
	at, err := time.Parse(time.RFC3339, utc)
	if err != nil {
		panic(err)
	}
	return c.WithNow(func() time.Time { return at })
}

func TestClock_ToCivilAcrossOffsets(t *testing.T) {
	c := mustClock(t)

	t.Run("winter is UTC+0", func(t *testing.T) {
		got := c.ToCivil(time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC))
		if got.Hour != 20 || got.Date() != "2025-01-15" {
			t.Errorf("Expected 2025-01-15 20h, but got %s %dh", got.Date(), got.Hour)
		}
	})

	t.Run("summer is UTC+1", func(t *testing.T) {
		got := c.ToCivil(time.Date(2025, 4, 11, 20, 0, 0, 0, time.UTC))
		if got.Hour != 21 {
			t.Errorf("Expected civil hour 21, but got %d", got.Hour)
		}
	})

	t.Run("late UTC evening rolls the civil date", func(t *testing.T) {
		got := c.CivilDate(time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC))
		if got != "2025-07-01" {
			t.Errorf("Expected 2025-07-01, but got %s", got)
		}
	})
}

func TestClock_HasHourPassed(t *testing.T) {
	c := fixedAt(mustClock(t), "2025-04-11T12:30:00Z") // 13:30 in Dublin

	if c.HasHourPassed(14) {
		t.Error("Expected 14:00 not to have passed at 13:30")
	}
	if !c.HasHourPassed(13) {
		t.Error("Expected 13:00 to have passed at 13:30")
	}
	if c.Today() != "2025-04-11" {
		t.Errorf("Expected today to be 2025-04-11, but got %s", c.Today())
	}
}

func TestClock_DrawType(t *testing.T) {
	c := mustClock(t)
	if got := c.DrawType(time.Date(2025, 4, 11, 13, 0, 0, 0, time.UTC)); got != Afternoon {
		t.Errorf("Expected Afternoon, but got %s", got)
	}
	if got := c.DrawType(time.Date(2025, 4, 11, 17, 0, 0, 0, time.UTC)); got != Evening {
		t.Errorf("Expected Evening for 18:00 civil, but got %s", got)
	}
}

func TestClock_NextOccurrence(t *testing.T) {
	c := fixedAt(mustClock(t), "2025-04-11T12:30:00Z")

	next := c.NextOccurrence(14)
	if want := time.Date(2025, 4, 11, 13, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Expected %v, but got %v", want, next)
	}

	next = c.NextOccurrence(9)
	if want := time.Date(2025, 4, 12, 8, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Expected %v, but got %v", want, next)
	}
}

func TestSlot_RoundTrip(t *testing.T) {
	c := mustClock(t)

	// Hourly through both 2025 DST transitions.
	ranges := [][2]time.Time{
		{time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC), time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC)},
	}
	for _, r := range ranges {
		for at := r[0]; at.Before(r[1]); at = at.Add(17 * time.Minute) {
			encoded := c.EncodeSlot(at)
			slot, err := DecodeSlot(encoded)
			if err != nil {
				t.Fatalf("DecodeSlot(%q) failed: %v", encoded, err)
			}
			civil := c.ToCivil(at)
			if slot.Hour24 != civil.Hour || slot.Date != civil.Date() {
				t.Errorf("%v: encoded %q decoded to %+v, civil %s %dh", at, encoded, slot, civil.Date(), civil.Hour)
			}
		}
	}
}

func TestSlot_Idempotent(t *testing.T) {
	for _, meridiem := range []string{"am", "pm"} {
		for hour := 1; hour <= 12; hour++ {
			id := fmt.Sprintf("2025-04-11-%d%s", hour, meridiem)
			slot, err := DecodeSlot(id)
			if err != nil {
				t.Fatalf("DecodeSlot(%q) failed: %v", id, err)
			}
			if slot.String() != id {
				t.Errorf("Expected %q to re-encode identically, but got %q", id, slot.String())
			}
		}
	}
}

func TestDecodeSlot(t *testing.T) {
	t.Run("9pm", func(t *testing.T) {
		slot, err := DecodeSlot("2025-04-11-9pm")
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if slot.Date != "2025-04-11" || slot.Hour24 != 21 {
			t.Errorf("Expected 2025-04-11 hour 21, but got %+v", slot)
		}
	})

	t.Run("midnight and noon", func(t *testing.T) {
		am, _ := DecodeSlot("2025-04-11-12am")
		pm, _ := DecodeSlot("2025-04-11-12pm")
		if am.Hour24 != 0 || pm.Hour24 != 12 {
			t.Errorf("Expected 0 and 12, but got %d and %d", am.Hour24, pm.Hour24)
		}
	})

	for _, bad := range []string{"", "2025-04-11", "2025-04-11-21", "2025-04-11-9PM", "2025-4-11-9pm", "2025-04-11-0am", "2025-04-11-13pm", "2025-02-30-2pm", "x2025-04-11-9pm"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := DecodeSlot(bad); !errors.Is(err, ErrMalformedSlot) {
				t.Errorf("Expected ErrMalformedSlot, but got %v", err)
			}
		})
	}
}
