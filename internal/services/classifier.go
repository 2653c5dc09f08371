package services

import (
	"dailymillions/internal/clock"
	"dailymillions/internal/models"
)

// DrawState is the publication state of one scheduled draw slot.
type DrawState string

const (
	// Published: a record exists for the slot.
	Published DrawState = "published"
	// Pending: the slot is today and its hour has not been reached.
	Pending DrawState = "pending"
	// Unscheduled: no record, and the slot is not today or its hour has
	// passed without results arriving. Shown as "results expected soon".
	Unscheduled DrawState = "unscheduled"
)

// Classifier derives DrawState from the records on hand and the clock.
// Nothing is stored; every call recomputes.
type Classifier struct {
	Clock *clock.Clock
	// ForceComingSoon ignores existing records so the pending and
	// unscheduled branches can be exercised at any time of day.
	ForceComingSoon bool
}

// Classify returns the state of the (date, scheduledHour) slot given records.
func (cl Classifier) Classify(date string, scheduledHour int, records []models.DrawRecord) DrawState {
	if !cl.ForceComingSoon && cl.hasRecord(date, scheduledHour, records) {
		return Published
	}
	if date == cl.Clock.Today() && !cl.Clock.HasHourPassed(scheduledHour) {
		return Pending
	}
	return Unscheduled
}

func (cl Classifier) hasRecord(date string, hour int, records []models.DrawRecord) bool {
	for _, rec := range records {
		at, err := rec.DrawTime()
		if err != nil {
			continue
		}
		civil := cl.Clock.ToCivil(at)
		if civil.Date() == date && civil.Hour == hour {
			return true
		}
	}
	return false
}
