package timezone

import (
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "Asia/Jakarta"

	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateOf returns the calendar date of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, loc)
}

// At combines a calendar date and an "HH:MM" label into an instant in loc.
func At(date, slot string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+SlotLayout, date+" "+slot, loc)
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Clock reads the current instant in the shop location.
type Clock struct {
	Loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	return Clock{Loc: loc, now: time.Now}
}

// ClockFunc builds a clock over an arbitrary time source.
func ClockFunc(loc *time.Location, now func() time.Time) Clock {
	return Clock{Loc: loc, now: now}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.Loc)
	}
	return c.now().In(c.Loc)
}

func (c Clock) Today() string {
	return DateOf(c.Now(), c.Loc)
}
