package services

import (
	"sort"
	"time"

	"dailymillions/internal/clock"
	"dailymillions/internal/models"

	"github.com/google/logger"
)

// DateGroups buckets draw records by civil date. Every group it holds is
// non-empty and sorted newest first; a date with no draws has no key.
type DateGroups struct {
	order  []string
	groups map[string][]models.DrawRecord
}

// GroupByDate buckets records by their civil draw date in c's zone.
// Records without a usable draw timestamp are logged and skipped.
func GroupByDate(c *clock.Clock, records []models.DrawRecord) *DateGroups {
	g := &DateGroups{groups: make(map[string][]models.DrawRecord)}

	for i := range records {
		rec := &records[i]
		at, err := rec.DrawTime()
		if err != nil {
			logger.Warningf("Skipping draw record %s: %v", rec.ID.Hex(), err)
			continue
		}

		date := c.CivilDate(at)
		group, seen := g.groups[date]
		if !seen {
			g.order = append(g.order, date)
		}
		group = append(group, *rec)
		sort.SliceStable(group, func(a, b int) bool {
			return mustDrawTime(group[a]).After(mustDrawTime(group[b]))
		})
		g.groups[date] = group
	}
	return g
}

// mustDrawTime is only called on records that already parsed in GroupByDate.
func mustDrawTime(r models.DrawRecord) time.Time {
	at, _ := r.DrawTime()
	return at
}

// Get returns the group for date.
func (g *DateGroups) Get(date string) ([]models.DrawRecord, bool) {
	group, ok := g.groups[date]
	return group, ok
}

// Len returns the number of dates.
func (g *DateGroups) Len() int {
	return len(g.order)
}

// Dates returns the dates in the order they were first seen.
func (g *DateGroups) Dates() []string {
	return append([]string(nil), g.order...)
}

// SortedDates returns the dates newest first. YYYY-MM-DD keys sort
// chronologically as plain strings.
func (g *DateGroups) SortedDates() []string {
	dates := g.Dates()
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
