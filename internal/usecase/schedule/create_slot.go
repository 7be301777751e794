package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type CreateSlotInput struct {
	BarberID uint
	Date     string
	TimeSlot string
	Actor    booking.Actor
}

type CreateSlot struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreateSlot(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CreateSlot {
	return &CreateSlot{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

// Execute adds a single slot outside the weekly table, e.g. an extra
// late opening.
func (uc *CreateSlot) Execute(
	ctx context.Context,
	in CreateSlotInput,
) (*models.Schedule, error) {

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, httperr.ErrNotFound("barber_not_found", "barber does not exist")
	}
	if err != nil {
		return nil, err
	}
	if !barber.IsActive {
		return nil, httperr.ErrInvalidState("barber_inactive", "barber is not active")
	}

	at, err := timezone.At(in.Date, in.TimeSlot, uc.clock.Loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", "date must be YYYY-MM-DD and time_slot HH:MM")
	}
	if !at.After(uc.clock.Now()) {
		return nil, httperr.ErrValidation("slot_in_past", "slot time has already passed")
	}

	slot := &models.Schedule{
		BarberID:      barber.ID,
		Date:          in.Date,
		TimeSlot:      at.Format(timezone.SlotLayout),
		ScheduledTime: at,
		DayOfWeek:     int(at.Weekday()),
		Status:        string(domain.StatusAvailable),
		IsDefaultSlot: false,
		ModifiedByID:  in.Actor.Ref(),
		ModifiedAt:    ptrTime(uc.clock.Now()),
		Version:       1,
	}

	if err := uc.repo.CreateSlot(ctx, slot); err != nil {
		if errors.Is(err, booking.ErrDuplicate) {
			return nil, httperr.ErrConflict("slot_exists", "a slot already exists for this barber, date and time")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.Ref(),
		Action:   "slot_created",
		Entity:   "schedule",
		EntityID: &slot.ID,
	})

	return slot, nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
