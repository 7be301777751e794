package jobs

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	scheduleuc "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

// Regenerator materialises next month's calendar for every active barber.
type Regenerator struct {
	generate *scheduleuc.GenerateSlots
	clock    timezone.Clock
}

func NewRegenerator(generate *scheduleuc.GenerateSlots, clock timezone.Clock) *Regenerator {
	return &Regenerator{generate: generate, clock: clock}
}

func (r *Regenerator) NextMonth(ctx context.Context) (int, error) {
	first, last := NextMonthRange(r.clock.Now())

	return r.generate.Execute(ctx, scheduleuc.GenerateSlotsInput{
		StartDate: first,
		EndDate:   last,
	})
}

// NextMonthRange returns the first and last calendar date of the month
// after now.
func NextMonthRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(timezone.DateLayout), last.Format(timezone.DateLayout)
}
