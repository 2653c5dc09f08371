package services

import (
	"context"
	"fmt"
	"time"

	"dailymillions/internal/clock"
	"dailymillions/internal/models"
)

// Scheduled civil draw hours.
const (
	AfternoonHour = 14
	EveningHour   = 21
)

// HistoryPageSize is the number of dates per history page.
const HistoryPageSize = 5

// ScheduledHours lists the daily draw hours in order.
var ScheduledHours = []int{AfternoonHour, EveningHour}

// ResultsReader is the cached read side the service renders from.
type ResultsReader interface {
	LatestResults(ctx context.Context) []models.DrawRecord
	ResultsByDate(ctx context.Context, date string) []models.DrawRecord
}

// DrawSummary is a record with its derived slot, draw type and timestamp.
type DrawSummary struct {
	Slot     string            `json:"slot"`
	DrawType clock.DrawType    `json:"drawType"`
	DrawTime time.Time         `json:"drawTime"`
	Record   models.DrawRecord `json:"record"`
}

// SlotStatus is the classified state of one scheduled slot.
type SlotStatus struct {
	Slot       string     `json:"slot"`
	Hour       int        `json:"hour"`
	State      DrawState  `json:"state"`
	NextDrawAt *time.Time `json:"nextDrawAt,omitempty"`
}

// LatestDay is the home page model: the newest date with results, its
// afternoon and evening draws, and today's slot states.
type LatestDay struct {
	Date              string       `json:"date"`
	IsToday           bool         `json:"isToday"`
	Afternoon         *DrawSummary `json:"afternoon,omitempty"`
	Evening           *DrawSummary `json:"evening,omitempty"`
	Today             []SlotStatus `json:"today"`
	EveningComingSoon bool         `json:"eveningComingSoon"`
}

// SlotPage is the model of a single draw page.
type SlotPage struct {
	Requested string       `json:"requested"`
	Match     MatchKind    `json:"match"`
	Draw      DrawSummary  `json:"draw"`
	Other     *DrawSummary `json:"other,omitempty"`
}

// DayDraws is one date of the history archive.
type DayDraws struct {
	Date  string        `json:"date"`
	Draws []DrawSummary `json:"draws"`
}

// HistoryPage is one page of the archive, newest dates first.
type HistoryPage struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	TotalDates int        `json:"totalDates"`
	Days       []DayDraws `json:"days"`
}

// ResultsService builds page models from cached results.
type ResultsService struct {
	reader     ResultsReader
	clock      *clock.Clock
	classifier Classifier
}

// NewResultsService creates a ResultsService.
func NewResultsService(reader ResultsReader, c *clock.Clock, forceComingSoon bool) *ResultsService {
	return &ResultsService{
		reader:     reader,
		clock:      c,
		classifier: Classifier{Clock: c, ForceComingSoon: forceComingSoon},
	}
}

// GroupResultsByDate groups records by civil date in the service's zone.
func (s *ResultsService) GroupResultsByDate(records []models.DrawRecord) *DateGroups {
	return GroupByDate(s.clock, records)
}

// LatestDay returns the home page model.
func (s *ResultsService) LatestDay(ctx context.Context) LatestDay {
	groups := s.GroupResultsByDate(s.reader.LatestResults(ctx))
	today := s.clock.Today()

	day := LatestDay{Today: s.slotStatuses(today, groups)}

	dates := groups.SortedDates()
	if len(dates) > 0 {
		day.Date = dates[0]
		day.IsToday = day.Date == today

		draws, _ := groups.Get(day.Date)
		for _, rec := range draws {
			summary := s.summarize(rec)
			switch {
			case summary.DrawType == clock.Afternoon && day.Afternoon == nil:
				day.Afternoon = &summary
			case summary.DrawType == clock.Evening && day.Evening == nil:
				day.Evening = &summary
			}
		}
	}

	day.EveningComingSoon = s.classifier.ForceComingSoon ||
		(day.IsToday && day.Afternoon != nil && day.Evening == nil &&
			s.clock.HasHourPassed(AfternoonHour) && !s.clock.HasHourPassed(EveningHour))

	return day
}

func (s *ResultsService) slotStatuses(date string, groups *DateGroups) []SlotStatus {
	draws, _ := groups.Get(date)
	statuses := make([]SlotStatus, 0, len(ScheduledHours))
	for _, hour := range ScheduledHours {
		status := SlotStatus{
			Slot:  clock.Slot{Date: date, Hour24: hour}.String(),
			Hour:  hour,
			State: s.classifier.Classify(date, hour, draws),
		}
		if status.State == Pending {
			next := s.clock.NextOccurrence(hour)
			status.NextDrawAt = &next
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// SlotPage resolves a slot identifier to a draw. It returns an error
// wrapping clock.ErrMalformedSlot or ErrNoRecordsForDate.
func (s *ResultsService) SlotPage(ctx context.Context, id string) (SlotPage, error) {
	slot, err := clock.DecodeSlot(id)
	if err != nil {
		return SlotPage{}, err
	}

	groups := s.GroupResultsByDate(s.reader.ResultsByDate(ctx, slot.Date))
	group, _ := groups.Get(slot.Date)

	res, err := Resolve(s.clock, group, slot.Hour24)
	if err != nil {
		return SlotPage{}, fmt.Errorf("slot %s: %w", id, err)
	}

	page := SlotPage{
		Requested: slot.String(),
		Match:     res.Match,
		Draw:      s.summarize(res.Record),
	}
	for _, rec := range group {
		other := s.summarize(rec)
		if !other.DrawTime.Equal(page.Draw.DrawTime) {
			page.Other = &other
			break
		}
	}
	return page, nil
}

// History returns one page of the archive. Pages start at 1; out-of-range
// pages are clamped.
func (s *ResultsService) History(ctx context.Context, page int) HistoryPage {
	groups := s.GroupResultsByDate(s.reader.LatestResults(ctx))
	dates := groups.SortedDates()

	totalPages := (len(dates) + HistoryPageSize - 1) / HistoryPageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	hp := HistoryPage{
		Page:       page,
		TotalPages: totalPages,
		TotalDates: len(dates),
		Days:       []DayDraws{},
	}

	start := (page - 1) * HistoryPageSize
	end := min(start+HistoryPageSize, len(dates))
	for _, date := range dates[start:end] {
		draws, _ := groups.Get(date)
		day := DayDraws{Date: date, Draws: make([]DrawSummary, 0, len(draws))}
		for _, rec := range draws {
			day.Draws = append(day.Draws, s.summarize(rec))
		}
		hp.Days = append(hp.Days, day)
	}
	return hp
}

// SlotIndex lists the slot identifier of every known draw, newest first.
func (s *ResultsService) SlotIndex(ctx context.Context) []string {
	groups := s.GroupResultsByDate(s.reader.LatestResults(ctx))

	slots := []string{}
	for _, date := range groups.SortedDates() {
		draws, _ := groups.Get(date)
		for _, rec := range draws {
			slots = append(slots, s.summarize(rec).Slot)
		}
	}
	return slots
}

// summarize expects a record that GroupByDate has already accepted.
func (s *ResultsService) summarize(rec models.DrawRecord) DrawSummary {
	at := mustDrawTime(rec)
	return DrawSummary{
		Slot:     s.clock.EncodeSlot(at),
		DrawType: s.clock.DrawType(at),
		DrawTime: at,
		Record:   rec,
	}
}
