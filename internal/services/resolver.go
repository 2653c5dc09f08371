package services

import (
	"errors"

	"dailymillions/internal/clock"
	"dailymillions/internal/models"
)

// ErrNoRecordsForDate is returned when a date has no draws to resolve against.
var ErrNoRecordsForDate = errors.New("no draw records for date")

// MatchKind tells whether a resolved record is the one that was asked for.
type MatchKind string

const (
	// ExactMatch means the record was drawn at the requested civil hour.
	ExactMatch MatchKind = "exact"
	// FallbackMatch means no draw matched the hour and the most recent
	// draw of the date was substituted.
	FallbackMatch MatchKind = "fallback"
)

// Resolution is the record chosen for a slot and how it was chosen.
type Resolution struct {
	Record models.DrawRecord
	Match  MatchKind
}

// Resolve picks the record of group drawn at civil hour hour24. group must be
// sorted newest first, as GroupByDate leaves it. When no record matches, the
// first (most recent) one is returned as a FallbackMatch.
func Resolve(c *clock.Clock, group []models.DrawRecord, hour24 int) (Resolution, error) {
	if len(group) == 0 {
		return Resolution{}, ErrNoRecordsForDate
	}

	for _, rec := range group {
		at, err := rec.DrawTime()
		if err != nil {
			continue
		}
		if c.ToCivil(at).Hour == hour24 {
			return Resolution{Record: rec, Match: ExactMatch}, nil
		}
	}
	return Resolution{Record: group[0], Match: FallbackMatch}, nil
}
