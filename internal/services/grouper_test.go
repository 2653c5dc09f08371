package services

import (
	"testing"

	"dailymillions/internal/models"
)

func TestGroupByDate(t *testing.T) {
	c := testClock(t, "")
	records := []models.DrawRecord{
		draw("2025-04-10T13:00:00Z", "a"),
		draw("2025-04-11T13:00:00Z", "b"),
		{Standard: models.Game{GameTitle: "no date"}},
		draw("2025-04-11T20:00:00Z", "c"),
		draw("2025-04-10T20:00:00Z", "d"),
		{Standard: models.Game{GameTitle: "bad date", DrawDates: []string{"soon"}}},
		draw("2025-06-30T23:30:00Z", "e"), // 00:30 on 1 July in Dublin
	}

	groups := GroupByDate(c, records)

	t.Run("Test first-seen order is kept", func(t *testing.T) {
		dates := groups.Dates()
		want := []string{"2025-04-10", "2025-04-11", "2025-07-01"}
		if len(dates) != len(want) {
			t.Fatalf("Expected %v, but got %v", want, dates)
		}
		for i := range want {
			if dates[i] != want[i] {
				t.Errorf("Expected %v, but got %v", want, dates)
			}
		}
	})

	t.Run("Test sorted dates are newest first", func(t *testing.T) {
		sorted := groups.SortedDates()
		if sorted[0] != "2025-07-01" || sorted[2] != "2025-04-10" {
			t.Errorf("Unexpected order %v", sorted)
		}
	})

	t.Run("Test groups are sorted newest first", func(t *testing.T) {
		group, ok := groups.Get("2025-04-10")
		if !ok || len(group) != 2 {
			t.Fatalf("Expected 2 draws, but got %d (ok=%v)", len(group), ok)
		}
		if group[0].Standard.GameTitle != "d" || group[1].Standard.GameTitle != "a" {
			t.Errorf("Expected d before a, but got %s, %s", group[0].Standard.GameTitle, group[1].Standard.GameTitle)
		}
	})

	t.Run("Test groups are never empty and unusable records are skipped", func(t *testing.T) {
		total := 0
		for _, date := range groups.Dates() {
			group, _ := groups.Get(date)
			if len(group) == 0 {
				t.Errorf("Group %s is empty", date)
			}
			total += len(group)
		}
		if total != 5 {
			t.Errorf("Expected 5 grouped records, but got %d", total)
		}
		if _, ok := groups.Get("2025-06-30"); ok {
			t.Error("Expected no group for the UTC date of a post-midnight draw")
		}
	})

	t.Run("Test empty input", func(t *testing.T) {
		if GroupByDate(c, nil).Len() != 0 {
			t.Error("Expected no groups")
		}
	})
}
