package schedule

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type ToggleSlotInput struct {
	SlotID uint
	Status string
	Reason string
	Actor  booking.Actor
}

type ToggleSlot struct {
	repo  booking.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewToggleSlot(
	repo booking.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ToggleSlot {
	return &ToggleSlot{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *ToggleSlot) Execute(
	ctx context.Context,
	in ToggleSlotInput,
) (*models.Schedule, error) {

	slot, err := uc.repo.GetSlot(ctx, in.SlotID)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, httperr.ErrNotFound("slot_not_found", "slot does not exist")
	}
	if err != nil {
		return nil, err
	}

	from := slot.Status
	if err := domain.Toggle(slot, domain.Status(in.Status), in.Actor.ID, in.Reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrConflict("slot_modified", "slot was modified concurrently, reload and retry")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.Ref(),
		Action:   "slot_toggled",
		Entity:   "schedule",
		EntityID: &slot.ID,
		Metadata: map[string]string{
			"from":   from,
			"to":     slot.Status,
			"reason": in.Reason,
		},
	})

	return slot, nil
}
