package services

import (
	"context"
	"testing"
	"time"

	"dailymillions/internal/clock"
	"dailymillions/internal/models"
)

func testClock(t *testing.T, nowUTC string) *clock.Clock {
	t.Helper()
	c, err := clock.New(clock.DefaultZone)
	if err != nil {
		t.Fatalf("Failed to load clock: %v", err)
	}
	if nowUTC == "" {
		return c
	}
	at, err := time.Parse(time.RFC3339, nowUTC)
	if err != nil {
		t.Fatalf("Bad test time %q: %v", nowUTC, err)
	}
	return c.WithNow(func() time.Time { return at })
}

func draw(utc, title string) models.DrawRecord {
	return models.DrawRecord{
		Standard:   models.Game{GameTitle: title, DrawDates: []string{utc}},
		AddonGames: []models.Game{{GameTitle: title + " Plus", DrawDates: []string{utc}}},
	}
}

type fakeReader struct {
	records []models.DrawRecord
}

func (f *fakeReader) LatestResults(context.Context) []models.DrawRecord {
	return f.records
}

func (f *fakeReader) ResultsByDate(_ context.Context, date string) []models.DrawRecord {
	out := []models.DrawRecord{}
	for _, r := range f.records {
		if d := r.Standard.DrawDates; len(d) > 0 && len(d[0]) >= len(date) && d[0][:len(date)] == date {
			out = append(out, r)
		}
	}
	return out
}
