package report

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type Summary struct {
	From     string                  `json:"from"`
	To       string                  `json:"to"`
	Total    int64                   `json:"total"`
	Revenue  int64                   `json:"revenue"`
	ByStatus []booking.StatusSummary `json:"by_status"`
}

type ReservationSummary struct {
	repo  booking.Repository
	clock timezone.Clock
}

func NewReservationSummary(repo booking.Repository, clock timezone.Clock) *ReservationSummary {
	return &ReservationSummary{repo: repo, clock: clock}
}

// Execute counts reservations per status over the slot dates [from, to].
// Revenue only counts completed reservations. An empty range means today.
func (uc *ReservationSummary) Execute(ctx context.Context, from, to string) (*Summary, error) {
	if from == "" {
		from = uc.clock.Today()
	}
	if to == "" {
		to = from
	}

	start, err := timezone.ParseDate(from, uc.clock.Loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "from must be YYYY-MM-DD")
	}
	end, err := timezone.ParseDate(to, uc.clock.Loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "to must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, httperr.ErrInvalidRange("invalid_range", "from must not be after to")
	}

	rows, err := uc.repo.SummarizeReservations(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &Summary{From: from, To: to, ByStatus: rows}
	for _, r := range rows {
		out.Total += r.Count
		if r.Status == string(domain.StatusCompleted) {
			out.Revenue += r.Revenue
		}
	}
	return out, nil
}
