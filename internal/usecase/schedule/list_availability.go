package schedule

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type ListAvailabilityInput struct {
	BarberID uint
	Date     string

	// OnlyBookable hides every slot that cannot be booked right now.
	OnlyBookable bool
}

type ListAvailability struct {
	repo  booking.Repository
	clock timezone.Clock
}

func NewListAvailability(
	repo booking.Repository,
	clock timezone.Clock,
) *ListAvailability {
	return &ListAvailability{
		repo:  repo,
		clock: clock,
	}
}

func (uc *ListAvailability) Execute(
	ctx context.Context,
	in ListAvailabilityInput,
) ([]models.Schedule, error) {

	if _, err := timezone.ParseDate(in.Date, uc.clock.Loc); err != nil {
		return nil, httperr.ErrValidation("invalid_date", "date must be YYYY-MM-DD")
	}

	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, httperr.ErrNotFound("barber_not_found", "barber does not exist")
		}
		return nil, err
	}

	filter := booking.SlotFilter{
		BarberID: &in.BarberID,
		Date:     in.Date,
	}
	if in.OnlyBookable {
		filter.Status = string(domain.StatusAvailable)
	}

	slots, err := uc.repo.ListSlots(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !in.OnlyBookable {
		return slots, nil
	}

	now := uc.clock.Now()
	out := slots[:0]
	for _, s := range slots {
		if s.ScheduledTime.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}
