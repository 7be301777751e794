package schedule

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// Band is an inclusive range of hour-aligned slot starts.
type Band struct {
	FirstHour int
	LastHour  int
}

// Weekly operating hours, one slot per hour.
var weeklyBands = map[time.Weekday][]Band{
	time.Sunday:    {{FirstHour: 12, LastHour: 20}},
	time.Monday:    {{FirstHour: 11, LastHour: 18}, {FirstHour: 19, LastHour: 23}},
	time.Tuesday:   {{FirstHour: 11, LastHour: 18}, {FirstHour: 19, LastHour: 23}},
	time.Wednesday: {{FirstHour: 11, LastHour: 18}, {FirstHour: 19, LastHour: 23}},
	time.Thursday:  {{FirstHour: 11, LastHour: 18}, {FirstHour: 19, LastHour: 23}},
	time.Friday:    {{FirstHour: 13, LastHour: 23}},
	time.Saturday:  {{FirstHour: 10, LastHour: 22}},
}

// SlotsFor returns the ordered "HH:MM" labels operating on the given weekday.
func SlotsFor(day time.Weekday) []string {
	bands := weeklyBands[day]

	slots := make([]string, 0, 16)
	for _, b := range bands {
		for h := b.FirstHour; h <= b.LastHour; h++ {
			slots = append(slots, fmt.Sprintf("%02d:00", h))
		}
	}
	return slots
}

// IsOperatingSlot reports whether label is part of the weekly table for day.
func IsOperatingSlot(day time.Weekday, label string) bool {
	for _, s := range SlotsFor(day) {
		if s == label {
			return true
		}
	}
	return false
}

// Key is the natural key of a slot.
type Key struct {
	BarberID uint
	Date     string
	TimeSlot string
}

func KeyOf(s *models.Schedule) Key {
	return Key{BarberID: s.BarberID, Date: s.Date, TimeSlot: s.TimeSlot}
}

// Dates expands the inclusive range [from, to] into calendar dates.
func Dates(from, to time.Time, loc *time.Location) []string {
	start := timezone.StartOfDay(from, loc)
	end := timezone.StartOfDay(to, loc)

	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(timezone.DateLayout))
	}
	return out
}

// Plan stages the available slots missing for every barber and date.
// Slots already in existing and slots starting at or before now are skipped.
func Plan(
	barberIDs []uint,
	dates []string,
	existing map[Key]struct{},
	now time.Time,
	loc *time.Location,
) ([]models.Schedule, error) {

	var staged []models.Schedule
	for _, date := range dates {
		day, err := timezone.ParseDate(date, loc)
		if err != nil {
			return nil, err
		}

		labels := SlotsFor(day.Weekday())
		for _, barberID := range barberIDs {
			for _, label := range labels {
				key := Key{BarberID: barberID, Date: date, TimeSlot: label}
				if _, ok := existing[key]; ok {
					continue
				}

				at, err := timezone.At(date, label, loc)
				if err != nil {
					return nil, err
				}
				if !at.After(now) {
					continue
				}

				staged = append(staged, models.Schedule{
					BarberID:      barberID,
					Date:          date,
					TimeSlot:      label,
					ScheduledTime: at,
					DayOfWeek:     int(day.Weekday()),
					Status:        string(StatusAvailable),
					IsDefaultSlot: true,
					Version:       1,
				})
			}
		}
	}

	return staged, nil
}
